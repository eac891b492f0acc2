package gormenum

import (
	"github.com/xy-planning-network/enumcol"
	"gorm.io/gorm"
)

var _ gorm.Plugin = Plugin{}

// Plugin validates every Column in a Registry when installed with (*gorm.DB).Use,
// so a misconfigured Column stops the application before it touches a row.
//
// A zero Plugin validates enumcol.DefaultRegistry.
type Plugin struct {
	Registry *enumcol.Registry
}

// Name implements gorm.Plugin.
func (Plugin) Name() string { return "enumcol" }

// Initialize implements gorm.Plugin.
func (p Plugin) Initialize(db *gorm.DB) error {
	r := p.Registry
	if r == nil {
		r = enumcol.DefaultRegistry
	}

	if _, err := enumcol.PlatformFor(db.Dialector.Name()); err != nil {
		return err
	}

	return r.Validate()
}
