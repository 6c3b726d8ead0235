package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountryName(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"upper case", "US", "الولايات المتحدة"},
		{"lower case", "us", "الولايات المتحدة"},
		{"mixed case", "Sa", "المملكة العربية السعودية"},
		{"unknown code is upper-cased", "zz", "ZZ"},
		{"empty code", "", UnknownCountry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountryName(tt.code))
		})
	}
}
