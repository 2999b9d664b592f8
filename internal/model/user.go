package model

import (
	"encoding/json"
	"fmt"
	"maps"
)

// User is the storefront profile of the current visitor. Known profile
// fields are explicit; anything else the client sends is kept in Extra
// and written back flattened next to the known fields.
type User struct {
	ID    string         `json:"id,omitempty" validate:"max=64"`
	Name  string         `json:"name,omitempty" validate:"max=255"`
	Email string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone string         `json:"phone,omitempty" validate:"max=32"`
	Extra map[string]any `json:"-"`
}

// userFields lists the JSON keys decoded into explicit User fields.
var userFields = map[string]struct{}{
	"id":    {},
	"name":  {},
	"email": {},
	"phone": {},
}

// Validate checks the explicit user fields.
func (u *User) Validate() error {
	return checkStruct(u, nil)
}

// Clone returns a copy of the user that does not share Extra.
func (u User) Clone() User {
	u.Extra = maps.Clone(u.Extra)
	return u
}

// Merge shallow-merges the patch into a copy of u. Fields absent from the
// patch keep their current value; Extra keys are overwritten one by one.
func (u User) Merge(p UserPatch) User {
	merged := u.Clone()
	if p.ID != nil {
		merged.ID = *p.ID
	}
	if p.Name != nil {
		merged.Name = *p.Name
	}
	if p.Email != nil {
		merged.Email = *p.Email
	}
	if p.Phone != nil {
		merged.Phone = *p.Phone
	}
	if len(p.Extra) > 0 {
		if merged.Extra == nil {
			merged.Extra = make(map[string]any, len(p.Extra))
		}
		maps.Copy(merged.Extra, p.Extra)
	}
	return merged
}

// MarshalJSON flattens Extra next to the explicit fields.
func (u User) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(u.Extra)+len(userFields))
	maps.Copy(out, u.Extra)

	setIfNotEmpty(out, "id", u.ID)
	setIfNotEmpty(out, "name", u.Name)
	setIfNotEmpty(out, "email", u.Email)
	setIfNotEmpty(out, "phone", u.Phone)

	return json.Marshal(out)
}

// UnmarshalJSON decodes the explicit fields and collects every other key
// into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var patch UserPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return err
	}
	*u = User{}.Merge(patch)
	return nil
}

// UserPatch is a partial user update. Nil fields are left untouched.
type UserPatch struct {
	ID    *string        `validate:"omitempty,max=64"`
	Name  *string        `validate:"omitempty,max=255"`
	Email *string        `validate:"omitempty,email"`
	Phone *string        `validate:"omitempty,max=32"`
	Extra map[string]any `validate:"-"`
}

// Validate checks the fields present in the patch.
func (p *UserPatch) Validate() error {
	return checkStruct(p, nil)
}

// UnmarshalJSON decodes a JSON object into the patch. Known keys must
// hold strings, except "id" which may also be a number; any other key lands
// in Extra.
func (p *UserPatch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = UserPatch{}
	for key, value := range raw {
		if _, known := userFields[key]; !known {
			var v any
			if err := json.Unmarshal(value, &v); err != nil {
				return fmt.Errorf("decoding %q: %w", key, err)
			}
			if p.Extra == nil {
				p.Extra = make(map[string]any)
			}
			p.Extra[key] = v
			continue
		}

		s, err := decodeUserField(key, value)
		if err != nil {
			return err
		}
		switch key {
		case "id":
			p.ID = &s
		case "name":
			p.Name = &s
		case "email":
			p.Email = &s
		case "phone":
			p.Phone = &s
		}
	}

	return nil
}

// decodeUserField decodes a known user key. Numeric IDs keep their literal
// text, so {"id":1} becomes "1".
func decodeUserField(key string, value json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(value, &s)
	if err == nil {
		return s, nil
	}
	if key == "id" {
		var n json.Number
		if json.Unmarshal(value, &n) == nil {
			return n.String(), nil
		}
	}
	return "", fmt.Errorf("decoding %q: %w", key, err)
}

func setIfNotEmpty(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}
