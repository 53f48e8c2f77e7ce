package main

import (
	"embed"
	"log"
	"os"

	"github.com/chazu/csgray/pkg/config"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("CSGRAY_CONFIG"))
	if err != nil {
		log.Fatalf("csgray: %v", err)
	}
	app := NewApp(cfg)

	err = wails.Run(&options.App{
		Title:  "csgray",
		Width:  1200,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 30, G: 30, B: 36, A: 255},
		OnStartup:        app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatalf("csgray: %v", err)
	}
}
