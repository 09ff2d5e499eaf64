package controller

import (
	"net/http"

	"github.com/onkonavigator/onkonav/taxonomy"

	"github.com/gin-gonic/gin"
)

// TaxonomyController serves the controlled vocabularies consumed by the UI
// chips, dropdowns and the admin form. One source for values and labels.
type TaxonomyController struct{}

// NewTaxonomyController creates the controller and registers its routes.
func NewTaxonomyController(g *gin.RouterGroup) *TaxonomyController {
	a := &TaxonomyController{}
	a.initRouter(g)
	return a
}

func (a *TaxonomyController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.all)
}

func (a *TaxonomyController) all(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cancerTypes":       taxonomy.CancerTypes,
		"stages":            taxonomy.Stages,
		"categories":        taxonomy.Categories,
		"treatmentTypes":    taxonomy.TreatmentTypes,
		"suspicionSymptoms": taxonomy.SuspicionSymptoms,
		"preventionTopics":  taxonomy.PreventionTopics,
		"supportCategories": taxonomy.SupportCategories,
	})
}
