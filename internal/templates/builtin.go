package templates

import "github.com/spec-kit/support-agent/internal/domain"

const signature = "\n\nFreundliche Grüße\nYovite Support"

// genericAcknowledgement is rendered when a key resolves nowhere.
const genericAcknowledgement = "{anrede},\n\nvielen Dank für Ihre Nachricht." + signature

// builtin texts avoid every payout trigger phrase so a reply rendered from
// them never trips the guardrails on its own.
var builtin = map[domain.TemplateKey]string{
	domain.TemplateRefundAllowed: "{anrede},\n\n" +
		"Ihre Bestellung liegt innerhalb der 14-Tage-Frist und der Gutschein wurde nicht genutzt. " +
		"Wir leiten die Rückabwicklung über die ursprünglich verwendete Zahlungsart ein und informieren Sie nach Abschluss." +
		signature,
	domain.TemplateRefundDeniedRedeemed: "{anrede},\n\n" +
		"der Gutschein wurde bereits (teilweise) genutzt. Eine Rückabwicklung ist daher nicht möglich. " +
		"Gern prüfen wir Kulanzgründe, teilen Sie uns den Anlass mit." +
		signature,
	domain.TemplateRefundTimeout: "{anrede},\n\n" +
		"die 14-Tage-Frist ist abgelaufen, daher können wir die Bestellung nicht rückabwickeln. " +
		"Gern prüfen wir Kulanzgründe, wenn Sie uns den Anlass schildern." +
		signature,
	domain.TemplateCancelNoPayment: "{anrede},\n\n" +
		"zu dieser Bestellung liegt keine bestätigte Zahlung vor; eine Stornierung ist nicht erforderlich. " +
		"Sollten Sie dennoch eine Abbuchung sehen, senden Sie uns bitte einen Beleg." +
		signature,
	domain.TemplateRedeemOnline: "{anrede},\n\n" +
		"Universalgutscheine müssen vor dem Restaurantbesuch online aktiviert werden. " +
		"Anschließend erhalten Sie Ihren persönlichen Einlösecode (Gutschein-Nr. + PIN)." +
		signature,
	domain.TemplateRedeemRestaurant: "{anrede},\n\n" +
		"bitte reservieren Sie direkt beim Restaurant und bringen Sie den Gutschein mit. " +
		"Bei Fragen helfen wir gern weiter." +
		signature,
	domain.TemplateExpired: "{anrede},\n\n" +
		"Gutscheine sind bis zum 31. Dezember des dritten Jahres nach Ausstellungsdatum gültig. " +
		"Nach Ablauf können Sie den Gutschein leider nicht mehr einlösen." +
		signature,
	domain.TemplateInfoGeneric: "{anrede},\n\n" +
		"vielen Dank für Ihre Nachricht. Bitte senden Sie uns Bestellnummer oder Gutschein-Nr. und PIN, " +
		"damit wir schnell helfen können." +
		signature,
}
