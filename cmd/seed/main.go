package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/easysewa/booking-service/internal/app/bootstrap"
	"github.com/easysewa/booking-service/internal/application"
	flag "github.com/spf13/pflag"
)

func main() {
	configPath := flag.String("config", "configs/default.yaml", "path to the YAML config file")
	email := flag.String("email", "admin@easysewa.com", "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password (defaults to $ADMIN_PASSWORD)")
	name := flag.String("name", "Super Admin", "admin display name")
	phone := flag.String("phone", "", "admin phone number")
	flag.Parse()

	if *password == "" {
		log.Fatal("seed: --password or ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	tools, err := bootstrap.NewTools(ctx, *configPath)
	if err != nil {
		log.Fatalf("bootstrap seed: %v", err)
	}
	defer tools.Close()

	user, created, err := tools.SeedAdmin(ctx, application.SeedAdminRequest{
		Name:     *name,
		Email:    *email,
		Password: *password,
		Phone:    *phone,
	})
	if err != nil {
		tools.Close()
		log.Fatalf("seed admin: %v", err)
	}
	if created {
		fmt.Printf("created admin %s (%s)\n", user.Email, user.ID)
		return
	}
	fmt.Printf("admin %s already exists\n", user.Email)
}
