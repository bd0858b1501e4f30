package main

import (
	"flag"
	"log"

	"github.com/danmuck/ptvoice/internal/config"
	"github.com/danmuck/ptvoice/internal/voicefile"
)

func main() {
	kind := flag.String("kind", config.KindPtvoicectl, "template kind: ptvoicectl|voice")
	output := flag.String("output", "", "output path for the template")
	validate := flag.Bool("validate", false, "validate an existing file")
	input := flag.String("input", "", "path for validation (defaults to the per-kind output path)")
	force := flag.Bool("force", false, "overwrite existing file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		switch *kind {
		case config.KindPtvoicectl:
			if _, err := config.Load(path); err != nil {
				log.Fatal(err)
			}
		case config.KindVoice:
			if _, err := voicefile.LoadText(path); err != nil {
				log.Fatal(err)
			}
		default:
			log.Fatalf("unknown kind: %s", *kind)
		}
		log.Printf("Validated %s file at %s", *kind, path)
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s template to %s", *kind, target)
}

func defaultPath(kind string) string {
	switch kind {
	case config.KindPtvoicectl:
		return config.DefaultPath
	case config.KindVoice:
		return "voice.toml"
	default:
		log.Fatalf("unknown kind: %s", kind)
		return ""
	}
}
