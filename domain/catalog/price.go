package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidPrice is returned when a price string does not match the
// fixed-point decimal pattern.
var ErrInvalidPrice = errors.New("invalid price format")

var pricePattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// Price is a fixed-point decimal amount held as integer centavos. It always
// serializes with exactly two fraction digits, so "12.5" round-trips as "12.50".
type Price int64

// ParsePrice parses a decimal string matching ^\d+(\.\d{1,2})?$.
func ParsePrice(s string) (Price, error) {
	if !pricePattern.MatchString(s) {
		return 0, ErrInvalidPrice
	}

	whole, frac, _ := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}

	var cents int64
	switch len(frac) {
	case 0:
	case 1:
		cents = int64(frac[0]-'0') * 10
	case 2:
		cents = int64(frac[0]-'0')*10 + int64(frac[1]-'0')
	}

	return Price(units*100 + cents), nil
}

// String formats the price with two fraction digits.
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalJSON serializes the price as a decimal string.
func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either a decimal string or a bare JSON number.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}

	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value stores the price as integer centavos.
func (p Price) Value() (driver.Value, error) {
	return int64(p), nil
}

// Scan reads the price back from its integer column.
func (p *Price) Scan(value any) error {
	switch v := value.(type) {
	case int64:
		*p = Price(v)
		return nil
	case nil:
		*p = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Price", value)
	}
}
