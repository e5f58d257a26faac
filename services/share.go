package services

import (
	"fmt"
	"net/url"
	"strings"
)

const whatsAppBase = "https://wa.me/"

// WhatsAppMessage renders the quote as a plain-text chat message.
func WhatsAppMessage(data ExportData) string {
	var b strings.Builder
	b.WriteString("Price quote from " + ShopName + "\n\n")
	for _, r := range data.Rows {
		fmt.Fprintf(&b, "%s. %s (%s)\n", r.Index, r.Product, r.Category)
		fmt.Fprintf(&b, "   Quantity: %s\n", r.Quantity)
		fmt.Fprintf(&b, "   Finish: %s\n", r.Finish)
		fmt.Fprintf(&b, "   Price: %s\n\n", FormatSAR(r.FinalPrice))
	}
	fmt.Fprintf(&b, "Grand total: %s\n", FormatSAR(data.Totals.FinalTotal))
	fmt.Fprintf(&b, "Total price: %s", FormatSAR(data.Summary.LinesTotal))
	return b.String()
}

// WhatsAppURL returns a wa.me link that opens a chat prefilled with msg.
func WhatsAppURL(msg string) string {
	return whatsAppBase + "?" + url.Values{"text": {msg}}.Encode()
}
