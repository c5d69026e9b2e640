package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/greut/iiifld/client"
	"github.com/greut/iiifld/config"
	"github.com/greut/iiifld/image"
	"github.com/greut/iiifld/presentation"
)

func main() {
	var configFile = flag.String("config", "", "Define the configuration file to use.")
	var lang = flag.String("lang", "", "Preferred language for labels.")
	var scale = flag.Int("tiles", 0, "Print the tile grid of an info.json URL at the given scale.")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: iiifld [-config file] [-lang tag] [-tiles scale] URL")
	}
	url := flag.Arg(0)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			log.Fatal(err)
		}
	}
	if *lang != "" {
		cfg.Language = *lang
	}

	c := &client.Client{
		MaxBody: cfg.MaxBodyBytes(),
		Options: cfg.DecodeOptions(),
	}
	ctx := context.Background()

	if *scale > 0 {
		info, err := c.Info(ctx, url, cfg.AcceptHeaders())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s v%s %dx%d (scale factors %v)\n",
			info.ID.String(), info.Version, info.Width, info.Height, info.ScaleFactors())
		for _, tile := range image.DeriveTiles(0, *scale, info) {
			fmt.Printf("%d,%d %dx%d %s\n", tile.Row, tile.Col, tile.Width, tile.Height, tile.URL)
		}
		return
	}

	resource, err := c.Resource(ctx, url, cfg.AcceptHeaders())
	if err != nil {
		log.Fatal(err)
	}

	switch r := resource.(type) {
	case *presentation.Manifest:
		printManifest(r, cfg.Language)
	case *presentation.Collection:
		printCollection(r, cfg.Language, "")
	case *presentation.Canvas:
		printCanvas(r, cfg.Language)
	case *presentation.Range:
		printRange(r, cfg.Language, "")
	}
}

func printManifest(m *presentation.Manifest, lang string) {
	fmt.Printf("manifest v%s %s\n", m.Version, m.ID)
	fmt.Printf("label: %s\n", m.Label.Label(lang))
	if m.Summary != nil {
		fmt.Printf("summary: %s\n", m.Summary.Label(lang))
	}
	for _, row := range m.Metadata {
		fmt.Printf("  %s: %s\n", row.Label.Label(lang), row.Value.Label(lang))
	}
	if m.RequiredStatement != nil {
		fmt.Printf("statement: %s\n", m.RequiredStatement.Value.Label(lang))
	}
	fmt.Printf("paged: %v, direction: %s\n", m.Layout.IsPaged(), m.ViewingDirection)
	for i := range m.Canvases {
		printCanvas(&m.Canvases[i], lang)
	}
	for i := range m.Ranges {
		printRange(&m.Ranges[i], lang, "")
	}
}

func printCanvas(c *presentation.Canvas, lang string) {
	fmt.Printf("canvas %s (aspect %.3f, %d images) %s\n",
		c.ID, c.AspectRatio(), len(c.Images), c.Label.Label(lang))
	for _, img := range c.Images {
		fmt.Printf("  thumbnail: %s\n", image.Thumbnail(img.ID.String()))
	}
}

func printCollection(c *presentation.Collection, lang string, indent string) {
	fmt.Printf("%scollection v%s %s: %s\n", indent, c.Version, c.ID, c.Label.Label(lang))
	for _, item := range c.Items {
		if item.Collection != nil {
			printCollection(item.Collection, lang, indent+"  ")
		} else if item.Manifest != nil {
			fmt.Printf("%s  manifest %s: %s\n", indent, item.Manifest.ID, item.Manifest.Label.Label(lang))
		}
	}
}

func printRange(r *presentation.Range, lang string, indent string) {
	fmt.Printf("%srange %s: %s\n", indent, r.ID, r.Label.Label(lang))
	for _, item := range r.Items {
		if item.Range != nil {
			printRange(item.Range, lang, indent+"  ")
		} else {
			fmt.Printf("%s  canvas %s\n", indent, item.CanvasID)
		}
	}
}
