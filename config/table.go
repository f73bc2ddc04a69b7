package config

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	EnvDev         = "dev"
	EnvTest        = "test"
	EnvKarate      = "karate"
	EnvKarateAdmin = "karate-admin"
)

// DefaultEnvironment is used when no selector is supplied.
const DefaultEnvironment = EnvDev

// DefaultAppURL is the fallback base URL for unrecognized environments.
const DefaultAppURL = "http://localhost:8080/api"

// Entry maps one environment name to its base URL.
type Entry struct {
	Name string
	URL  string
}

// Table is an ordered environment name to base URL lookup with a default.
// A Table is never mutated after construction; With and WithDefault return copies.
type Table struct {
	defaultURL string
	entries    []Entry
}

// NewTable creates a table with the given default URL and entries.
// Entries are matched in the order given.
func NewTable(defaultURL string, entries ...Entry) *Table {
	return &Table{
		defaultURL: defaultURL,
		entries:    append([]Entry(nil), entries...),
	}
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	return NewTable(DefaultAppURL,
		Entry{Name: EnvDev, URL: "http://localhost:8080/api"},
		Entry{Name: EnvTest, URL: "http://localhost:8080/api"},
		Entry{Name: EnvKarate, URL: "http://localhost:8082/api"},
		Entry{Name: EnvKarateAdmin, URL: "http://localhost:8081/api"},
	)
}

// Lookup returns the URL of the first entry named env.
func (t *Table) Lookup(env string) (string, bool) {
	for _, e := range t.entries {
		if e.Name == env {
			return e.URL, true
		}
	}
	return "", false
}

// URLFor returns the URL for env, or the table default when env is unknown.
func (t *Table) URLFor(env string) string {
	appURL := t.defaultURL
	if u, ok := t.Lookup(env); ok {
		appURL = u
	}
	return appURL
}

// With returns a copy of the table where entries with a known name replace
// the existing entry in place and unknown names are appended.
func (t *Table) With(entries ...Entry) *Table {
	out := NewTable(t.defaultURL, t.entries...)

	for _, e := range entries {
		replaced := false
		for i := range out.entries {
			if out.entries[i].Name == e.Name {
				out.entries[i].URL = e.URL
				replaced = true
				break
			}
		}
		if !replaced {
			out.entries = append(out.entries, e)
		}
	}

	return out
}

// WithDefault returns a copy of the table using defaultURL as fallback.
func (t *Table) WithDefault(defaultURL string) *Table {
	return NewTable(defaultURL, t.entries...)
}

// Default returns the fallback URL.
func (t *Table) Default() string {
	return t.defaultURL
}

// Entries returns a copy of the entries in match order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Names returns the known environment names in match order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		names = append(names, e.Name)
	}
	return names
}

// Validate checks the default URL, every entry URL and name uniqueness.
func (t *Table) Validate() error {
	if err := validation.Validate(t.defaultURL, validation.Required, validation.By(validateAppURL)); err != nil {
		return validation.Errors{"default_url": err}
	}

	seen := make(map[string]struct{}, len(t.entries))
	errs := validation.Errors{}

	for _, e := range t.entries {
		if err := validateEntry(e); err != nil {
			key := e.Name
			if key == "" {
				key = "<empty>"
			}
			errs[key] = err
			continue
		}
		if _, dup := seen[e.Name]; dup {
			errs[e.Name] = validation.NewError("validation_duplicate_environment", "environment is declared more than once")
			continue
		}
		seen[e.Name] = struct{}{}
	}

	return errs.Filter()
}

func validateEntry(e Entry) error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.URL, validation.Required, validation.By(validateAppURL)),
	)
}

func validateAppURL(value interface{}) error {
	appURL, ok := value.(string)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a string")
	}

	if appURL == "" {
		return validation.NewError("validation_empty_url", "app URL cannot be empty")
	}

	parsedURL, err := url.Parse(appURL)
	if err != nil {
		return validation.NewError("validation_invalid_url", "must be a valid URL")
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return validation.NewError("validation_invalid_scheme", "URL must use http or https scheme")
	}

	if parsedURL.Host == "" {
		return validation.NewError("validation_missing_host", "URL must have a host")
	}

	return nil
}
