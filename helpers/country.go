package helpers

import "strings"

// UnknownCountry is returned for an empty country code
const UnknownCountry = "غير معروف"

// countryNames maps ISO-2 codes to their Arabic display names
var countryNames = map[string]string{
	"US": "الولايات المتحدة",
	"CN": "الصين",
	"HK": "هونغ كونغ",
	"JP": "اليابان",
	"GB": "المملكة المتحدة",
	"DE": "ألمانيا",
	"FR": "فرنسا",
	"CA": "كندا",
	"AU": "أستراليا",
	"CH": "سويسرا",
	"NL": "هولندا",
	"SE": "السويد",
	"KR": "كوريا الجنوبية",
	"TW": "تايوان",
	"IN": "الهند",
	"BR": "البرازيل",
	"RU": "روسيا",
	"IT": "إيطاليا",
	"ES": "إسبانيا",
	"SG": "سنغافورة",
	"IE": "أيرلندا",
	"NO": "النرويج",
	"DK": "الدنمارك",
	"FI": "فنلندا",
	"BE": "بلجيكا",
	"AT": "النمسا",
	"PT": "البرتغال",
	"IL": "إسرائيل",
	"SA": "المملكة العربية السعودية",
	"AE": "الإمارات العربية المتحدة",
	"ZA": "جنوب أفريقيا",
	"MX": "المكسيك",
	"AR": "الأرجنتين",
	"CL": "تشيلي",
	"TR": "تركيا",
	"ID": "إندونيسيا",
	"MY": "ماليزيا",
	"TH": "تايلاند",
	"PH": "الفلبين",
	"VN": "فيتنام",
	"PL": "بولندا",
	"CZ": "جمهورية التشيك",
	"HU": "المجر",
	"GR": "اليونان",
	"NZ": "نيوزيلندا",
	"BM": "برمودا",
	"KY": "جزر كايمان",
	"LU": "لوكسمبورغ",
}

// CountryName returns the localized name for an ISO-2 code, case-insensitively.
// Unknown codes come back upper-cased.
func CountryName(code string) string {
	if code == "" {
		return UnknownCountry
	}
	upper := strings.ToUpper(code)
	if name, ok := countryNames[upper]; ok {
		return name
	}
	return upper
}
