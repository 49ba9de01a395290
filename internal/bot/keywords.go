package bot

import (
	"strings"

	"github.com/ahleite/plannito-bot/internal/category"
)

// Keyword lists for the cheap, classifier-free shortcuts. All matching
// happens over folded text so accents don't matter.

var greetings = []string{
	"oi", "olá", "ola", "eae", "e aí", "hello", "hi",
	"bom dia", "boa tarde", "boa noite",
}

var helpKeywords = []string{"ajuda", "help", "comandos", "opções"}

var categoryListKeywords = []string{
	"categorias existentes", "listar categorias", "quais categorias",
	"me diga as categorias", "categorias válidas", "lista de categorias",
	"minhas categorias", "traga minhas categorias",
}

var categoryAddKeywords = []string{
	"adicionar categorias", "nova categoria", "como faço pra adicionar",
	"criar categoria", "adicionar nova categoria",
}

var summaryKeywords = []string{"resumo", "resumo do mês", "extrato"}

func isGreeting(body string) bool {
	folded := category.Fold(body)
	for _, g := range greetings {
		if folded == category.Fold(g) {
			return true
		}
	}
	return false
}

func matchesExact(body string, keywords []string) bool {
	folded := category.Fold(body)
	for _, k := range keywords {
		if folded == category.Fold(k) {
			return true
		}
	}
	return false
}

func containsAny(body string, keywords []string) bool {
	folded := category.Fold(body)
	for _, k := range keywords {
		if k != "" && strings.Contains(folded, category.Fold(k)) {
			return true
		}
	}
	return false
}
