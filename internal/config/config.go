package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate checks the struct tags and the cross-field rules that tags cannot
// express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		var details []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range verrs {
				details = append(details, fmt.Sprintf("%s: failed %s validation", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(details, "; "))
		}
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := c.validateTranslator(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	for name, task := range c.Scheduler.Tasks {
		if task.Enabled && strings.TrimSpace(task.Schedule) == "" {
			return fmt.Errorf("%w: scheduler task %q is enabled without a schedule", ErrValidation, name)
		}
	}

	if n := strings.Count(c.Messages.Result, "%s"); n != 3 {
		return fmt.Errorf("%w: messages.result needs 3 %%s placeholders, has %d", ErrValidation, n)
	}
	if n := strings.Count(c.Messages.Error, "%s"); n != 1 {
		return fmt.Errorf("%w: messages.error needs 1 %%s placeholder, has %d", ErrValidation, n)
	}

	return nil
}

// validateTranslator requires the credentials of the selected backend only.
func (c *Config) validateTranslator() error {
	t := c.Translator
	switch t.Backend {
	case "google":
		if t.Google.CredentialsFile == "" && t.Google.APIKey == "" {
			return fmt.Errorf("translator.google needs credentials_file or api_key")
		}
	case "gemini":
		if t.Gemini.APIKey == "" {
			return fmt.Errorf("translator.gemini.api_key is required")
		}
	case "openai":
		if t.OpenAI.APIKey == "" {
			return fmt.Errorf("translator.openai.api_key is required")
		}
	}
	return nil
}
