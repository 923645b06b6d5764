package constants

import (
	"fmt"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslation "github.com/go-playground/validator/v10/translations/en"
)

type ContextKey string

const (
	TxKey     ContextKey = "tx"
	PoolKey   ContextKey = "pool"
	LoggerKey ContextKey = "logger"
	OwnerKey  ContextKey = "owner"
	RunKey    ContextKey = "run"
)

// DateLayout is the canonical representation of calendar dates across herdbook.
const DateLayout = "2006-01-02"

var (
	Validate = validator.New(validator.WithRequiredStructEnabled())
	// Translator renders Validate's field errors as English sentences.
	Translator = newTranslator(Validate)
)

func newTranslator(v *validator.Validate) ut.Translator {
	enLocale := en.New()
	trans, found := ut.New(enLocale, enLocale).GetTranslator("en")
	if !found {
		panic(fmt.Errorf("en translator was not found"))
	}
	if err := enTranslation.RegisterDefaultTranslations(v, trans); err != nil {
		panic(fmt.Errorf("translator was not registered: %w", err))
	}
	return trans
}
