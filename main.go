package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/onkonavigator/onkonav/config"
	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/web"
	"github.com/onkonavigator/onkonav/web/service"

	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())

	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}

	// A missing signing secret must fail loudly before any session exists.
	if err := service.CheckSecret(); err != nil {
		log.Fatal(err)
	}

	err := database.InitDB(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer()
	err = server.Start()
	if err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGINT)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			err := server.Stop()
			if err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			err = server.Start()
			if err != nil {
				log.Println(err)
				return
			}
		default:
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			if err := database.CloseDB(); err != nil {
				logger.Warning("close db err:", err)
			}
			logger.CloseLogger()
			return
		}
	}
}

func createAdmin(email string, password string) {
	if email == "" {
		email = config.GetDefaultAdminEmail()
	}
	if password == "" {
		password = config.GetDefaultAdminPassword()
	}
	if email == "" || password == "" {
		fmt.Println("email and password are required (flags or DEFAULT_ADMIN_EMAIL/DEFAULT_ADMIN_PASSWORD)")
		return
	}

	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}

	adminService := service.AdminUserService{}
	admin, created, err := adminService.CreateOrRotate(email, password)
	if err != nil {
		fmt.Println("create admin failed:", err)
		return
	}
	if created {
		fmt.Printf("admin %s created (id %s)\n", admin.Email, admin.Id)
	} else {
		fmt.Printf("admin %s already existed, password rotated\n", admin.Email)
	}
}

func listAdmins() {
	if err := database.InitDB(config.GetDBPath()); err != nil {
		fmt.Println(err)
		return
	}

	adminService := service.AdminUserService{}
	admins, err := adminService.ListAdmins()
	if err != nil {
		fmt.Println("list admins failed:", err)
		return
	}
	if len(admins) == 0 {
		fmt.Println("no admin accounts exist")
		return
	}
	for _, admin := range admins {
		fmt.Printf("%s  %s  created %s\n", admin.Id, admin.Email, admin.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func main() {
	var rootCmd = &cobra.Command{
		Use: "onkonav",
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var adminCmd = &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	var adminCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Create an admin account or rotate its password",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			createAdmin(email, password)
		},
	}

	adminCreateCmd.Flags().String("email", "", "admin e-mail")
	adminCreateCmd.Flags().String("password", "", "admin password")

	var adminListCmd = &cobra.Command{
		Use:   "list",
		Short: "List admin accounts",
		Run: func(cmd *cobra.Command, args []string) {
			listAdmins()
		},
	}

	adminCmd.AddCommand(adminCreateCmd, adminListCmd)
	rootCmd.AddCommand(runCmd, adminCmd)

	if len(os.Args) <= 1 {
		runWebServer()
		return
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
