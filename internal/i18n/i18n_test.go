package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/Shivanand-hulikatti/festival-events/internal/apperr"
)

func TestTranslator_ErrorEnglish(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "Registration limit reached", tr.Error("", apperr.ErrLimitReached))
	assert.Equal(t, "Already checked in", tr.Error("en-US", apperr.ErrAlreadyCheckedIn))
}

func TestTranslator_ErrorTemplates(t *testing.T) {
	tr := NewTranslator("en")

	err := apperr.ErrFieldNotEditable.WithField("eventName").
		WithParams(map[string]any{"Status": "Published"})
	assert.Equal(t, "Field eventName cannot be edited while the event is Published", tr.Error("en", err))
}

func TestTranslator_ErrorFallsBackToEnglish(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, "पंजीकरण सीमा पूरी हो गई है", tr.Error("hi", apperr.ErrLimitReached))
	// not in the Hindi catalogue
	assert.Equal(t, "Message not found", tr.Error("hi", apperr.ErrMessageNotFound))
	assert.Equal(t, "Registration limit reached", tr.Error("fr-FR", apperr.ErrLimitReached))
}

func TestTranslator_T(t *testing.T) {
	tr := NewTranslator("en")

	got := tr.T("en", "mail_registration_confirmed_subject", map[string]any{"EventName": "Hackathon"})
	assert.Equal(t, "You are registered for Hackathon", got)
	assert.Equal(t, "no_such_key", tr.T("en", "no_such_key", nil))
	assert.Equal(t, "", tr.T("en", "", nil))
}

func TestTranslator_Match(t *testing.T) {
	tr := NewTranslator("en")

	assert.Equal(t, language.English, tr.Match(""))
	assert.Equal(t, language.English, tr.Match("de-DE,de;q=0.9"))
	assert.Equal(t, language.Hindi, tr.Match("hi-IN,hi;q=0.9,en;q=0.5"))
}

func TestNewTranslator_BadLocale(t *testing.T) {
	tr := NewTranslator("??")
	assert.Equal(t, language.English, tr.Match("xx"))
}
