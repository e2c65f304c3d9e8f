package geocode

import (
	"strings"

	"courier-dispatch/internal/domain"
)

// District is a known delivery area with the point searches are centred on.
type District struct {
	Key    string
	Name   string
	Center domain.Point
}

// districts is ordered; the first match wins.
var districts = []District{
	{Key: "mahmutlar", Name: "Mahmutlar", Center: domain.Point{Lon: 32.0867, Lat: 36.5722}},
	{Key: "tosmur", Name: "Tosmur", Center: domain.Point{Lon: 32.0167, Lat: 36.5667}},
	{Key: "okey", Name: "Okey", Center: domain.Point{Lon: 31.9957, Lat: 36.5441}},
	{Key: "hacet", Name: "Hacet", Center: domain.Point{Lon: 31.9857, Lat: 36.5341}},
	{Key: "kale", Name: "Kale", Center: domain.Point{Lon: 31.9957, Lat: 36.5441}},
	{Key: "kleopatra", Name: "Kleopatra", Center: domain.Point{Lon: 31.9957, Lat: 36.5441}},
	{Key: "damlatas", Name: "Damlataş", Center: domain.Point{Lon: 31.9957, Lat: 36.5441}},
	{Key: "gullerpinari", Name: "Güllerpınarı", Center: domain.Point{Lon: 32.0167, Lat: 36.5667}},
	{Key: "cayyolu", Name: "Çayyolu", Center: domain.Point{Lon: 32.0167, Lat: 36.5667}},
	{Key: "kestel", Name: "Kestel", Center: domain.Point{Lon: 31.9857, Lat: 36.5341}},
	{Key: "obakoy", Name: "Oba Köyü", Center: domain.Point{Lon: 32.0867, Lat: 36.5722}},
	{Key: "konakli", Name: "Konaklı", Center: domain.Point{Lon: 32.0867, Lat: 36.5722}},
	{Key: "avsallar", Name: "Avsallar", Center: domain.Point{Lon: 32.0867, Lat: 36.5722}},
	{Key: "incekum", Name: "İncekum", Center: domain.Point{Lon: 32.0867, Lat: 36.5722}},
}

// fallbackDistrict is used for district names that match nothing.
const fallbackDistrict = 2

var turkishFold = strings.NewReplacer(
	"İ", "i", "I", "i", "ı", "i",
	"Ğ", "g", "ğ", "g",
	"Ü", "u", "ü", "u",
	"Ş", "s", "ş", "s",
	"Ö", "o", "ö", "o",
	"Ç", "c", "ç", "c",
)

// Normalize folds Turkish letters and drops everything but ASCII letters and digits.
func Normalize(s string) string {
	s = strings.ToLower(turkishFold.Replace(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// LookupDistrict finds the district whose key contains, or is contained in,
// the normalized name. Unknown names fall back to the town centre.
// ok is false only for a name that normalizes to nothing.
func LookupDistrict(name string) (d District, ok bool) {
	n := Normalize(name)
	if n == "" {
		return District{}, false
	}
	for _, d := range districts {
		if strings.Contains(n, d.Key) || strings.Contains(d.Key, n) {
			return d, true
		}
	}
	return districts[fallbackDistrict], true
}

// Districts lists the known delivery districts.
func Districts() []District {
	out := make([]District, len(districts))
	copy(out, districts)
	return out
}
