// Package sector maps free-text sector descriptions onto a closed set of
// canonical dashboard groups and partitions stock lists by those groups.
package sector

import "strings"

// Other is the fallback group for sectors no rule recognizes
const Other = "قطاعات أخرى متنوعة"

// Canonical group labels
const (
	Fintech            = "التقنية المالية (Fintech)"
	RenewableEnergy    = "الطاقة المتجددة"
	ECommerce          = "التجارة الإلكترونية والإعلام الرقمي"
	Biotech            = "التكنولوجيا الحيوية والأدوية"
	Semiconductors     = "أشباه الموصلات ومعداتها"
	Software           = "البرمجيات وخدمات الإنترنت"
	TechHardware       = "الأجهزة والمعدات التقنية"
	Banks              = "البنوك والخدمات المصرفية"
	Insurance          = "التأمين"
	Investment         = "الاستثمار وإدارة الأصول"
	MedicalDevices     = "المعدات واللوازم الطبية"
	HealthcareServices = "مقدمو خدمات الرعاية الصحية"
	Automotive         = "السيارات وقطع غيارها"
	Retail             = "تجارة التجزئة"
	Leisure            = "الفنادق والسياحة والترفيه"
	ConsumerStaples    = "السلع الاستهلاكية الأساسية"
	Defense            = "الصناعات الدفاعية والجوية"
	Transportation     = "النقل والخدمات اللوجستية"
	Industrials        = "الصناعات والآلات الثقيلة"
	RealEstate         = "العقارات والتطوير العقاري"
	Construction       = "البناء والهندسة"
	Energy             = "الطاقة (النفط والغاز)"
	Communication      = "خدمات الاتصالات والإعلام"
	Materials          = "المواد الأساسية والتعدين"
	Utilities          = "المرافق العامة"
	BusinessServices   = "الخدمات المهنية والتجارية"
	Agriculture        = "الزراعة"
)

// rule assigns Label to any sector text containing one of Keywords
type rule struct {
	Label    string
	Keywords []string
}

// rules is evaluated top-down and the first match wins. Narrow categories sit
// above the broad ones that share keywords with them ("clean energy" before
// "energy", "e-commerce" before "retail"). The order is fixed; reordering
// reclassifies existing sheets.
var rules = []rule{
	{Fintech, []string{"fintech", "financial tech", "تقنية مالية"}},
	{RenewableEnergy, []string{"renewable", "solar", "wind", "clean energy", "طاقة متجددة", "طاقة شمسية", "طاقة نظيفة"}},
	{ECommerce, []string{"e-commerce", "online retail", "تجارة إلكترونية", "تسوق عبر الإنترنت"}},
	{Biotech, []string{"biotech", "pharmaceutical", "biopharma", "تقنية حيوية", "أدوية", "صيدلانية"}},
	{Semiconductors, []string{"semiconductor", "chips", "أشباه الموصلات", "رقائق"}},
	{Software, []string{"software", "internet", "cloud", "saas", "cybersecurity", "برمجيات", "إنترنت", "سحابي", "أمن سيبراني"}},
	{TechHardware, []string{"hardware", "computer", "electronics", "consumer electronics", "أجهزة", "كمبيوتر", "إلكترونيات استهلاكية"}},
	{Banks, []string{"banks", "banking", "بنوك", "مصرفي"}},
	{Insurance, []string{"insurance", "تأمين"}},
	{Investment, []string{"investment", "asset management", "capital markets", "brokerage", "استثمار", "إدارة أصول", "أسواق رأس المال"}},
	{MedicalDevices, []string{"medical devices", "medical equipment", "أجهزة طبية", "معدات طبية"}},
	{HealthcareServices, []string{"health care providers", "hospitals", "clinics", "مقدمي الرعاية الصحية", "مستشفيات"}},
	{Automotive, []string{"automotive", "auto", "cars", "tires", "electric vehicle", "ev", "سيارات", "إطارات", "مركبات كهربائية"}},
	{Retail, []string{"retail", "luxury", "apparel", "department stores", "تجزئة", "رفاهية", "ملابس", "متاجر كبرى"}},
	{Leisure, []string{"hotels", "restaurants", "leisure", "casinos", "entertainment", "travel", "airlines", "cruises", "فنادق", "مطاعم", "ترفيه", "سفر", "طيران"}},
	{ConsumerStaples, []string{"staples", "food", "beverage", "household products", "supermarket", "سلع أساسية", "أغذية", "مشروبات", "منتجات منزلية"}},
	{Defense, []string{"defense", "aerospace", "دفاع", "فضاء"}},
	{Transportation, []string{"transportation", "logistics", "shipping", "railroad", "delivery", "نقل", "خدمات لوجستية", "شحن", "سكك حديدية", "توصيل"}},
	{Industrials, []string{"industrial", "machinery", "manufacturing", "conglomerate", "صناع", "تصنيع", "آلات", "تكتل"}},
	{RealEstate, []string{"real estate", "reit", "property", "تطوير عقاري", "صناديق استثمار عقاري"}},
	{Construction, []string{"construction", "building materials", "engineering", "بناء", "مواد بناء", "هندسة"}},
	{Energy, []string{"energy", "oil", "gas", "petrochemicals", "drilling", "طاقة", "نفط", "غاز", "بتروكيماويات", "حفر"}},
	{Communication, []string{"communication", "telecom", "media", "اتصالات", "إعلام"}},
	{Materials, []string{"materials", "chemicals", "mining", "steel", "metals", "مواد", "كيماويات", "تعدين", "صلب", "معادن"}},
	{Utilities, []string{"utilities", "electric", "power", "water", "مرافق", "كهرباء", "ماء"}},
	{BusinessServices, []string{"business services", "professional services", "consulting", "staffing", "outsourcing", "waste management", "خدمات تجارية", "خدمات مهنية", "استشارات", "توظيف", "إدارة نفايات"}},
	{Agriculture, []string{"agriculture", "agribusiness", "farming", "crops", "fertilizer", "زراعة", "أعمال زراعية", "محاصيل", "أسمدة"}},
}

// Classify returns the canonical group label for a sector description.
// It never fails: unrecognized text lands in Other.
func Classify(sectorText string) string {
	text := strings.ToLower(strings.TrimSpace(sectorText))
	for _, r := range rules {
		for _, k := range r.Keywords {
			if strings.Contains(text, k) {
				return r.Label
			}
		}
	}
	return Other
}

// Labels returns every canonical label in rule order, followed by Other
func Labels() []string {
	labels := make([]string, 0, len(rules)+1)
	for _, r := range rules {
		labels = append(labels, r.Label)
	}
	return append(labels, Other)
}
