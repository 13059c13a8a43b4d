// Package contacts converts between employee records and vCard address books.
package contacts

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-celebrations/internal/config"
	"github.com/tartampluch/go-celebrations/internal/engine"
)

// Decode reads every card of r and returns the ones that form a valid
// employee. Cards without a usable name, birthday or join date are logged
// and skipped; the second return value counts them.
func Decode(r io.Reader) ([]engine.EmployeeInput, int, error) {
	dec := vcard.NewDecoder(r)

	var out []engine.EmployeeInput
	skipped := 0
	for {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, skipped, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		in := fromCard(card)
		if err := in.Validate(); err != nil {
			skipped++
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompContacts,
				config.LogKeyName, in.Name,
				config.LogKeyError, err,
			)
			continue
		}
		out = append(out, in)
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompContacts,
		config.LogKeyCount, len(out),
		config.LogKeySkipped, skipped,
	)
	return out, skipped, nil
}

func fromCard(card vcard.Card) engine.EmployeeInput {
	in := engine.EmployeeInput{
		ID:         card.Value(vcard.FieldUID),
		Name:       card.PreferredValue(vcard.FieldFormattedName),
		Birthday:   card.Value(vcard.FieldBirthday),
		JoinDate:   firstNonEmpty(card.Value(config.VCardJoinDate), card.Value(vcard.FieldAnniversary)),
		Department: firstNonEmpty(card.Value(config.VCardDepartment), orgUnit(card.Value(vcard.FieldOrganization))),
		Position:   card.Value(vcard.FieldTitle),
		Email:      card.PreferredValue(vcard.FieldEmail),
		Phone:      card.PreferredValue(vcard.FieldTelephone),
		Location:   card.Value(config.VCardLocation),
	}
	if in.Name == "" {
		if n := card.Name(); n != nil {
			in.Name = strings.TrimSpace(n.GivenName + " " + n.FamilyName)
		}
	}
	if in.Location == "" {
		if a := card.Address(); a != nil {
			in.Location = joinNonEmpty(", ", a.Locality, a.Country)
		}
	}
	return in
}

// orgUnit returns the organizational unit of an ORG value ("Company;Unit").
func orgUnit(org string) string {
	parts := strings.Split(org, config.VCardOrgSep)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Encode writes employees as vCard 4.0 cards. Dates are normalised to
// ISO 8601 when they parse and kept verbatim otherwise.
func Encode(w io.Writer, employees []engine.Employee) error {
	enc := vcard.NewEncoder(w)
	for _, e := range employees {
		card := toCard(e)
		vcard.ToV4(card)
		if err := enc.Encode(card); err != nil {
			return fmt.Errorf("%s: %w", config.ErrVCardEncode, err)
		}
	}
	return nil
}

func toCard(e engine.Employee) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldFormattedName, e.Name)
	card.SetValue(vcard.FieldUID, e.ID)

	birthday := isoDate(e.Birthday)
	joined := isoDate(e.JoinDate)
	card.SetValue(vcard.FieldBirthday, birthday)
	card.SetValue(vcard.FieldAnniversary, joined)
	card.SetValue(config.VCardJoinDate, joined)

	optional := map[string]string{
		config.VCardDepartment: e.Department,
		vcard.FieldTitle:       e.Position,
		vcard.FieldEmail:       e.Email,
		vcard.FieldTelephone:   e.Phone,
		config.VCardLocation:   e.Location,
	}
	for k, v := range optional {
		if v != "" {
			card.SetValue(k, v)
		}
	}
	return card
}

func isoDate(raw string) string {
	if d, err := engine.ParseDate(raw); err == nil {
		return d.Format(config.DateFormatISO)
	}
	return raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
