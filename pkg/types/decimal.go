package types

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	MoneyPlaces      int32 = 2
	CoordinatePlaces int32 = 7
)

// Decimal is a fixed-point amount serialized with two fractional digits
// ("4.00"). JSON numbers and strings are both accepted on input.
type Decimal struct {
	decimal.Decimal
}

func NewDecimal(d decimal.Decimal) Decimal {
	return Decimal{Decimal: d.Round(MoneyPlaces)}
}

func DecimalFromInt(v int64) Decimal {
	return Decimal{Decimal: decimal.NewFromInt(v)}
}

func DecimalFromFloat(v float64) Decimal {
	return NewDecimal(decimal.NewFromFloat(v))
}

// ParseDecimal parses a textual amount and rounds it to two places.
func ParseDecimal(raw string) (Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Decimal{}, fmt.Errorf("decimal: parse %q: %w", raw, err)
	}
	return NewDecimal(d), nil
}

func (d Decimal) String() string {
	return d.StringFixed(MoneyPlaces)
}

func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.StringFixed(MoneyPlaces))
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	parsed, err := unmarshalFixed(data)
	if err != nil {
		return err
	}
	d.Decimal = parsed.Round(MoneyPlaces)
	return nil
}

func (d Decimal) Value() (driver.Value, error) {
	return d.StringFixed(MoneyPlaces), nil
}

func (d *Decimal) Scan(value any) error {
	parsed, err := scanFixed(value)
	if err != nil {
		return err
	}
	d.Decimal = parsed.Round(MoneyPlaces)
	return nil
}

// Coordinate is a latitude or longitude fixed at seven fractional digits.
type Coordinate struct {
	decimal.Decimal
}

func CoordinateFromFloat(v float64) Coordinate {
	return Coordinate{Decimal: decimal.NewFromFloat(v).Round(CoordinatePlaces)}
}

func ParseCoordinate(raw string) (Coordinate, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Coordinate{}, fmt.Errorf("coordinate: parse %q: %w", raw, err)
	}
	return Coordinate{Decimal: d.Round(CoordinatePlaces)}, nil
}

func (c Coordinate) String() string {
	return c.StringFixed(CoordinatePlaces)
}

func (c Coordinate) Degrees() float64 {
	f, _ := c.Float64()
	return f
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.StringFixed(CoordinatePlaces))
}

func (c *Coordinate) UnmarshalJSON(data []byte) error {
	parsed, err := unmarshalFixed(data)
	if err != nil {
		return err
	}
	c.Decimal = parsed.Round(CoordinatePlaces)
	return nil
}

func (c Coordinate) Value() (driver.Value, error) {
	return c.StringFixed(CoordinatePlaces), nil
}

func (c *Coordinate) Scan(value any) error {
	parsed, err := scanFixed(value)
	if err != nil {
		return err
	}
	c.Decimal = parsed.Round(CoordinatePlaces)
	return nil
}

// unmarshalFixed parses the raw JSON token without passing through float64,
// so 4.1 stays 4.1 instead of 4.0999999.
func unmarshalFixed(data []byte) (decimal.Decimal, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return decimal.Zero, err
		}
		raw = s
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal: invalid value %s", trimmed)
	}
	return d, nil
}

func scanFixed(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		return decimal.NewFromString(v)
	case []byte:
		return decimal.NewFromString(string(v))
	default:
		return decimal.Zero, fmt.Errorf("decimal: unsupported scan type %T", value)
	}
}
