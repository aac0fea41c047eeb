// Command token prints a bearer token for an actor, signed with the key from
// the app config. It is meant for local development.
package main

import (
	"flag"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
	"github.com/yizeng/gab/gin/gorm/merchant/internal/pkg/jwthelper"
)

func main() {
	configPath := flag.String("config", "./cmd/app/config.yml", "path to the app config")
	name := flag.String("name", "", "actor name")
	realm := flag.Uint("realm", 1, "actor realm")
	flag.Parse()

	if *name == "" || *realm > 255 {
		flag.Usage()
		os.Exit(2)
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("failed to initialize config -> %w", err))
		os.Exit(1)
	}

	token, err := jwthelper.GenerateToken([]byte(conf.API.JWTSigningKey), *name, uint8(*realm), "cmd/token")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Println(token)
}
