package ui

import (
	"embed"
	"log"
	"sync"

	"fyne.io/fyne/v2/lang"
)

//go:embed translations
var translations embed.FS

var loadTranslations = sync.OnceFunc(func() {
	if err := lang.AddTranslationsFS(translations, "translations"); err != nil {
		log.Printf("[UI] loading translations: %v", err)
	}
})
