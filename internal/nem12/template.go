package nem12

import "time"

// HeaderTimestampLayout is the NEM12 100-row generation timestamp format.
const HeaderTimestampLayout = "200601021504"

// Catalog produces the skeleton row for each row type, used to synthesize
// rows a source is missing. The participant pair and the clock are
// injectable; placeholders are otherwise fixed.
type Catalog struct {
	// FromParticipant and ToParticipant fill the 100 row's market
	// participant pair.
	FromParticipant string
	ToParticipant   string

	// Now supplies the generation time for the 100 row. Defaults to
	// time.Now when nil.
	Now func() time.Time
}

// NewCatalog returns a catalog with the given participant pair and a
// real-time clock.
func NewCatalog(from, to string) *Catalog {
	return &Catalog{FromParticipant: from, ToParticipant: to}
}

// Time returns the catalog's current generation time.
func (c *Catalog) Time() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// TemplateFor returns the skeleton row for t. Synthesized rows carry the
// requesting source's name so diagnostics stay traceable.
func (c *Catalog) TemplateFor(t RowType, source string) Row {
	var cells []string
	switch t {
	case TypeHeader:
		cells = []string{"100", "NEM12", c.Time().Format(HeaderTimestampLayout), c.FromParticipant, c.ToParticipant}
	case TypeMeterConfig:
		// NMI, configuration, register, suffix, MDM stream, meter serial,
		// unit of measure, interval length, next scheduled read
		cells = []string{"200", "NMI0000000", "E1", "1", "E1", "N1", "METSER001", "KWH", "30", ""}
	case TypeInterval:
		// interval date, quality method, reason code, reason description
		cells = []string{"300", c.Time().Format("20060102"), "A", "", ""}
	case TypeEvent:
		// start interval, end interval, quality method, reason code
		cells = []string{"400", "1", "48", "A", ""}
	case TypeTrailer:
		cells = []string{"900"}
	default:
		return Row{}
	}

	return Row{Type: t, Cells: cells, Source: source}
}
