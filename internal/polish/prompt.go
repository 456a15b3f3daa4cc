package polish

import "fmt"

// systemPrompt pins the model to style-only edits in formal German.
func systemPrompt(maxWords int) string {
	return "Du überarbeitest deutsche Support-E-Mails (Sie-Form). " +
		"Ändere keine inhaltlichen Entscheidungen, keine neuen Zusagen. " +
		fmt.Sprintf("Formuliere freundlich, klar, maximal %d Wörter. ", maxWords) +
		"Keine Erstattung/Bar-/Teilauszahlung versprechen."
}

// BuildPrompt assembles the single-turn prompt sent to the model.
func BuildPrompt(decisionText, draft, customerMessage string, maxWords int) string {
	return fmt.Sprintf("System:\n%s\n\n"+
		"Bindende Policy-Entscheidung (nicht ändern):\n%s\n\n"+
		"Kundenanfrage:\n%s\n\n"+
		"Entwurf (nur sprachlich verbessern, Inhalt unverändert lassen):\n%s\n\n"+
		"Aufgabe:\n"+
		"- Formuliere den Entwurf natürlich und höflich um.\n"+
		"- Sie-Form; keine Erstattung/Bar-/Teilauszahlung zusagen.\n"+
		"- Maximal %d Wörter.\n"+
		"- Antworte nur mit dem finalen Text.",
		systemPrompt(maxWords), decisionText, customerMessage, draft, maxWords)
}
