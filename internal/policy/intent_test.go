package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-agent/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		subject string
		body    string
		hints   IntentHints
		want    domain.Intent
	}{
		{name: "storno", body: "Bitte Storno meiner Bestellung", want: domain.IntentCancel},
		{name: "stornieren in subject", subject: "Bestellung stornieren", body: "Danke", want: domain.IntentCancel},
		{name: "widerruf", body: "Hiermit erkläre ich den Widerruf.", want: domain.IntentCancel},
		{name: "rücktritt uppercase", body: "RÜCKTRITT vom Kauf", want: domain.IntentCancel},
		{name: "decomposed umlaut", body: "Ru\u0308cktritt bitte", want: domain.IntentCancel},
		{name: "cancel beats redeem vocabulary", body: "Ich möchte den eingelösten Gutschein stornieren, Code ABC", want: domain.IntentCancel},
		{name: "cancel beats voucher hint", body: "storno bitte", hints: IntentHints{HasVoucherCode: true}, want: domain.IntentCancel},
		{name: "einlösen", body: "Wie kann ich den Gutschein einlösen?", want: domain.IntentRedeemHelp},
		{name: "einloesen transliterated", body: "wie einloesen", want: domain.IntentRedeemHelp},
		{name: "pin word", body: "Meine PIN funktioniert nicht", want: domain.IntentRedeemHelp},
		{name: "code word", body: "Der Code geht nicht", want: domain.IntentRedeemHelp},
		{name: "code inside word", body: "Barcodescanner kaputt", want: domain.IntentGeneral},
		{name: "voucher hint only", body: "Hallo", hints: IntentHints{HasVoucherCode: true}, want: domain.IntentRedeemHelp},
		{name: "general", body: "Wie lange ist mein Gutschein gültig?", want: domain.IntentGeneral},
		{name: "empty", want: domain.IntentGeneral},
		{name: "whitespace only", subject: "  ", body: "\n\t", want: domain.IntentGeneral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.subject, tc.body, tc.hints))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "gutschein einlösen bitte", Normalize("  Gutschein \n\t EINLÖSEN   bitte "))
	assert.Equal(t, "", Normalize(""))
}
