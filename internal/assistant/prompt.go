package assistant

import (
	"fmt"
	"strings"

	"github.com/frostmart/storefront-service/internal/catalog"
)

// systemInstructions frame the model as the storefront's shopping
// assistant and tell it to cite products with an explicit ID marker,
// which the mention extractor depends on.
const systemInstructions = `Eres el asistente de compras de FrostMart, una tienda online con ofertas especiales.
Ayudas a los clientes a encontrar productos, comparar precios y descubrir descuentos.
Cuando recomiendes un producto, menciona siempre su identificador con el formato "ID: <número>".
Sé breve, amable y responde en el idioma del cliente.`

// BuildPrompt assembles the full prompt: system instructions, a
// bounded catalog excerpt highlighting discounts, the last few
// history turns, and the new user message.
func BuildPrompt(products []catalog.Product, history []Message, userMessage string, excerptSize, historyWindow int) string {
	var b strings.Builder

	b.WriteString(systemInstructions)
	b.WriteString("\n\nCatálogo disponible:\n")
	b.WriteString(formatCatalogExcerpt(products, excerptSize))

	if turns := lastTurns(history, historyWindow); len(turns) > 0 {
		b.WriteString("\nConversación hasta ahora:\n")
		for _, msg := range turns {
			if msg.IsUser {
				b.WriteString("Cliente: ")
			} else {
				b.WriteString("Asistente: ")
			}
			b.WriteString(msg.Text)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nCliente: ")
	b.WriteString(userMessage)
	b.WriteString("\nAsistente:")

	return b.String()
}

// formatCatalogExcerpt renders at most excerptSize products, one per
// line, flagging discounted items.
func formatCatalogExcerpt(products []catalog.Product, excerptSize int) string {
	if excerptSize > 0 && excerptSize < len(products) {
		products = products[:excerptSize]
	}

	var b strings.Builder
	for _, p := range products {
		if p.Discounted() {
			fmt.Fprintf(&b, "- ID: %d | %s | %.2f (antes %.2f, -%d%%) | %s\n",
				p.ID, p.Title, p.Price, p.OriginalPrice, p.DiscountPercent, p.Category)
		} else {
			fmt.Fprintf(&b, "- ID: %d | %s | %.2f | %s\n",
				p.ID, p.Title, p.Price, p.Category)
		}
	}
	return b.String()
}

func lastTurns(history []Message, window int) []Message {
	if window > 0 && len(history) > window {
		return history[len(history)-window:]
	}
	return history
}
