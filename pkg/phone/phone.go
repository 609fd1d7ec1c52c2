// Package phone annotates public phone numbers with the country they belong to.
package phone

import (
	"fmt"

	"github.com/biter777/countries"
	"github.com/nyaruka/phonenumbers"
)

// Format renders "+<code> <number>" and appends " (<country>)" when the
// calling code maps to a known country. Anything it cannot interpret is
// returned unannotated.
func Format(countryCode, number string) (formatted string) {
	formatted = fmt.Sprintf("+%s %s", countryCode, number)

	defer func() {
		if r := recover(); r != nil {
			formatted = fmt.Sprintf("+%s %s", countryCode, number)
		}
	}()

	if name := Country(formatted); name != "" {
		formatted = fmt.Sprintf("%s (%s)", formatted, name)
	}
	return formatted
}

// Country returns the English country name for an international number, or
// "" when it cannot be determined.
func Country(international string) string {
	num, err := phonenumbers.Parse(international, "")
	if err != nil {
		return ""
	}

	region := phonenumbers.GetRegionCodeForCountryCode(int(num.GetCountryCode()))
	if region == "" || region == phonenumbers.UNKNOWN_REGION {
		return ""
	}

	country := countries.ByName(region)
	if country == countries.Unknown {
		return ""
	}
	return country.String()
}
