package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/router.txt
	routerRaw string

	//go:embed template/storage.txt
	storageRaw string

	//go:embed template/retrieval.txt
	retrievalRaw string
)

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Router    string
	Storage   string
	Retrieval string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings. Safe to
// call concurrently; the embed is compile-time and trimming is cheap.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Router:    strings.TrimSpace(routerRaw),
		Storage:   strings.TrimSpace(storageRaw),
		Retrieval: strings.TrimSpace(retrievalRaw),
	}
}
