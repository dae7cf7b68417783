package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/basepoint-api/cmd/app"
)

// @title           Basepoint API
// @version         1.0
// @description     Territory capture ledger, holder views and faction treasury.
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token
func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
