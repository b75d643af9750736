package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// ActorSnapshot is copied into audit rows at write time and never joined back to the profile
type ActorSnapshot struct {
	DisplayName string `gorm:"type:varchar(255)"`
	Handle      string `gorm:"type:varchar(100)"`
	AvatarURL   string `gorm:"type:varchar(500)"`
}

type FieldChange struct {
	Old any `json:"old"` // Previous value
	New any `json:"new"` // New value
}

// FieldChanges maps a request field name to its old and new value
type FieldChanges map[string]FieldChange

// Names returns the changed field names in sorted order
func (j FieldChanges) Names() []string {
	names := make([]string, 0, len(j))
	for name := range j {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (j FieldChanges) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *FieldChanges) Scan(value any) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported type %T for FieldChanges", value)
	}
	if err := json.Unmarshal(data, j); err != nil {
		return err
	}
	return nil
}
