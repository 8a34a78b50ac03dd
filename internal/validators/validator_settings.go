package validators

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-risk-console/models"
)

// JSON field names of the editable resource documents.
const (
	FieldTheme              = "theme"
	FieldLanguage           = "language"
	FieldTimezone           = "timezone"
	FieldDateFormat         = "date_format"
	FieldDigest             = "digest"
	FieldEmailAlerts        = "email_alerts"
	FieldSMSAlerts          = "sms_alerts"
	FieldRiskAlertThreshold = "risk_alert_threshold"

	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldCompany          = "company"
	FieldPosition         = "position"
	FieldTwoFactorEnabled = "two_factor_enabled"
)

const (
	maxNameLength  = 100
	maxLabelLength = 150
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// Draft carries unsaved field values of one editable resource, keyed by JSON
// field name. Values are whatever the edit surface produced: strings, bools,
// or numbers (ints or JSON float64s).
type Draft struct {
	Resource models.ResourceID
	Fields   map[string]any
}

// SettingsValidator validates settings documents and edit drafts. It is
// shared by the auto-save coordinator (field-scoped draft checks before
// persistence) and the stub settings API (full-document checks after
// applying a patch).
type SettingsValidator struct {
}

func NewSettingsValidator() Validator {
	return &SettingsValidator{}
}

func (v *SettingsValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.Preferences:
		return v.validatePreferences(ctx, value, fields...)
	case *models.Preferences:
		return v.validatePreferences(ctx, *value, fields...)

	case models.Profile:
		return v.validateProfile(ctx, value, fields...)
	case *models.Profile:
		return v.validateProfile(ctx, *value, fields...)

	case Draft:
		return v.validateDraft(ctx, value, fields...)
	case *Draft:
		return v.validateDraft(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SettingsValidator) validatePreferences(_ context.Context, p models.Preferences, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{
			FieldTheme, FieldLanguage, FieldTimezone, FieldDateFormat,
			FieldDigest, FieldRiskAlertThreshold,
		}
	}

	resource := string(models.ResourcePreferences)
	for _, f := range fields {
		var err error
		switch f {
		case FieldTheme:
			err = checkTheme(p.Theme)
		case FieldLanguage:
			err = checkLanguage(p.Language)
		case FieldTimezone:
			err = checkTimezone(p.Timezone)
		case FieldDateFormat:
			err = checkDateFormat(p.DateFormat)
		case FieldDigest:
			err = checkDigest(p.Digest)
		case FieldRiskAlertThreshold:
			err = checkThreshold(p.RiskAlertThreshold)
		case FieldEmailAlerts, FieldSMSAlerts:
			// booleans carry no further rules
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return newFieldError(resource, f, err)
		}
	}

	return nil
}

func (v *SettingsValidator) validateProfile(_ context.Context, p models.Profile, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{
			FieldFirstName, FieldLastName, FieldEmail, FieldPhone,
			FieldCompany, FieldPosition,
		}
	}

	resource := string(models.ResourceProfile)
	for _, f := range fields {
		var err error
		switch f {
		case FieldFirstName:
			err = checkName(p.FirstName, ErrEmptyFirstName)
		case FieldLastName:
			err = checkName(p.LastName, ErrEmptyLastName)
		case FieldEmail:
			err = checkEmail(p.Email)
		case FieldPhone:
			err = checkPhone(p.Phone)
		case FieldCompany:
			err = checkLabel(p.Company)
		case FieldPosition:
			err = checkLabel(p.Position)
		case FieldTwoFactorEnabled:
			// present in the document, not writable through it
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return newFieldError(resource, f, err)
		}
	}

	return nil
}

// validateDraft checks unsaved field values one by one. Unlike the document
// paths above it also enforces value types, because drafts arrive as `any`
// from the edit surface.
func (v *SettingsValidator) validateDraft(_ context.Context, d Draft, fields ...string) error {
	if len(fields) == 0 {
		fields = make([]string, 0, len(d.Fields))
		for f := range d.Fields {
			fields = append(fields, f)
		}
	}

	switch d.Resource {
	case models.ResourcePreferences:
		return v.validatePreferencesDraft(d, fields)
	case models.ResourceProfile:
		return v.validateProfileDraft(d, fields)
	default:
		return ErrResourceNotEditable
	}
}

func (v *SettingsValidator) validatePreferencesDraft(d Draft, fields []string) error {
	resource := string(d.Resource)
	for _, f := range fields {
		value, present := d.Fields[f]
		if !present {
			continue
		}

		var err error
		switch f {
		case FieldTheme:
			err = withString(value, checkTheme)
		case FieldLanguage:
			err = withString(value, checkLanguage)
		case FieldTimezone:
			err = withString(value, checkTimezone)
		case FieldDateFormat:
			err = withString(value, checkDateFormat)
		case FieldDigest:
			err = withString(value, checkDigest)
		case FieldRiskAlertThreshold:
			err = withInt(value, checkThreshold)
		case FieldEmailAlerts, FieldSMSAlerts:
			if _, ok := value.(bool); !ok {
				err = ErrInvalidFieldType
			}
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return newFieldError(resource, f, err)
		}
	}

	return nil
}

func (v *SettingsValidator) validateProfileDraft(d Draft, fields []string) error {
	resource := string(d.Resource)
	for _, f := range fields {
		value, present := d.Fields[f]
		if !present {
			continue
		}

		var err error
		switch f {
		case FieldFirstName:
			err = withString(value, func(s string) error { return checkName(s, ErrEmptyFirstName) })
		case FieldLastName:
			err = withString(value, func(s string) error { return checkName(s, ErrEmptyLastName) })
		case FieldEmail:
			err = withString(value, checkEmail)
		case FieldPhone:
			err = withString(value, checkPhone)
		case FieldCompany:
			err = withString(value, checkLabel)
		case FieldPosition:
			err = withString(value, checkLabel)
		case FieldTwoFactorEnabled:
			err = ErrFieldReadOnly
		default:
			err = ErrUnknownField
		}
		if err != nil {
			return newFieldError(resource, f, err)
		}
	}

	return nil
}

// ── field rules ──────────────────────────────────────────────────────────────

func checkTheme(s string) error {
	switch s {
	case models.ThemeLight, models.ThemeDark, models.ThemeSystem:
		return nil
	}
	return ErrInvalidTheme
}

func checkLanguage(s string) error {
	for _, lang := range models.Languages {
		if s == lang {
			return nil
		}
	}
	return ErrInvalidLanguage
}

func checkDigest(s string) error {
	switch s {
	case models.DigestOff, models.DigestDaily, models.DigestWeekly:
		return nil
	}
	return ErrInvalidDigest
}

func checkThreshold(n int) error {
	if n < 0 || n > 100 {
		return ErrInvalidThreshold
	}
	return nil
}

func checkTimezone(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyTimezone
	}
	return nil
}

func checkDateFormat(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyDateFormat
	}
	return nil
}

func checkName(s string, emptyErr error) error {
	if strings.TrimSpace(s) == "" {
		return emptyErr
	}
	if utf8.RuneCountInString(s) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func checkEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrInvalidEmail
	}
	return nil
}

func checkPhone(s string) error {
	// phone is optional
	if s == "" {
		return nil
	}
	if !phonePattern.MatchString(s) {
		return ErrInvalidPhone
	}
	return nil
}

func checkLabel(s string) error {
	if utf8.RuneCountInString(s) > maxLabelLength {
		return ErrNameTooLong
	}
	return nil
}

// ── draft value coercion ─────────────────────────────────────────────────────

func withString(value any, check func(string) error) error {
	s, ok := value.(string)
	if !ok {
		return ErrInvalidFieldType
	}
	return check(s)
}

func withInt(value any, check func(int) error) error {
	switch n := value.(type) {
	case int:
		return check(n)
	case int64:
		return check(int(n))
	case float64:
		// JSON numbers arrive as float64
		if n != float64(int(n)) {
			return ErrInvalidFieldType
		}
		return check(int(n))
	default:
		return ErrInvalidFieldType
	}
}
