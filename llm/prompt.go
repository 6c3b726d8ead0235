package llm

import (
	"fmt"
	"strings"

	"stock-sector-analyzer/models"
)

// Indicator setup the analysis is restricted to
const (
	AnalysisTimeframe = "4 ساعات"
	MomentumIndicator = "RSI"
	TrendIndicator    = "MACD"
)

// FormatTechnicalAnalysisPrompt builds the Arabic analyst prompt for a ticker.
// The model must answer with a single ```json block holding companyName,
// recommendation, entryPoint and reasoning.
func FormatTechnicalAnalysisPrompt(ticker string, webSearch bool) string {
	var sb strings.Builder
	sb.Grow(2048)

	fmt.Fprintf(&sb, "بصفتك محللًا فنيًا خبيرًا، قم بتحليل سهم \"%s\".\n", ticker)
	if webSearch {
		sb.WriteString("استخدم بحث جوجل للحصول على أحدث المعلومات والأخبار.\n")
	}
	sb.WriteString("\nيجب أن يستند تحليلك إلى:\n")
	sb.WriteString("1. الأخبار الحديثة والأحداث المتعلقة بالشركة.\n")
	fmt.Fprintf(&sb, "2. التحليل الفني يجب أن يعتمد **حصرياً** على استراتيجية تجمع بين مؤشري %s و %s على إطار زمني %s.\n",
		TrendIndicator, MomentumIndicator, AnalysisTimeframe)
	fmt.Fprintf(&sb, "   - **إشارة الدخول (شراء):** ابحث عن تقاطع خط %s الأزرق فوق خط الإشارة البرتقالي، ويجب أن يكون هذا التقاطع مدعومًا بوجود مؤشر %s تحت مستوى 50 ليعكس وجود زخم صاعد محتمل.\n",
		TrendIndicator, MomentumIndicator)
	fmt.Fprintf(&sb, "   - **إشارة الخروج (بيع/تجنب):** ابحث عن تقاطع خط %s الأزرق تحت خط الإشارة البرتقالي، خاصة إذا كان مؤشر %s فوق مستوى 50.\n",
		TrendIndicator, MomentumIndicator)
	sb.WriteString("   استخدم هذه الإشارات المجمعة كأساس لتحديد التوصية ونقطة الدخول.\n")
	sb.WriteString("3. معنويات السوق العامة تجاه السهم.\n\n")

	sb.WriteString("قم بتنسيق إجابتك ككائن JSON صالح ومضمن في كتلة كود JSON. يجب أن يحتوي الكائن على أربعة مفاتيح:\n")
	sb.WriteString("- \"companyName\": (سلسلة نصية: الاسم الكامل للشركة)\n")
	fmt.Fprintf(&sb, "- \"recommendation\": (سلسلة نصية: '%s' أو '%s' أو '%s')\n",
		models.LabelOpportunity, models.LabelWatch, models.LabelAvoid)
	fmt.Fprintf(&sb, "- \"entryPoint\": (سلسلة نصية: السعر أو النطاق السعري المقترح للدخول بناءً على إشارة %s و %s، أو null إذا لم يكن هناك توصية واضحة)\n",
		TrendIndicator, MomentumIndicator)
	fmt.Fprintf(&sb, "- \"reasoning\": (مصفوفة من السلاسل النصية تحتوي على 2-3 نقاط تحليل رئيسية، مع ذكر إشارة %s و %s الأخيرة)\n\n",
		TrendIndicator, MomentumIndicator)

	sb.WriteString("مثال على التنسيق:\n")
	sb.WriteString("```json\n")
	sb.WriteString("{\n")
	sb.WriteString("  \"companyName\": \"Company Name Inc.\",\n")
	fmt.Fprintf(&sb, "  \"recommendation\": \"%s\",\n", models.LabelOpportunity)
	sb.WriteString("  \"entryPoint\": \"حول 150.00 دولار\",\n")
	sb.WriteString("  \"reasoning\": [\n")
	fmt.Fprintf(&sb, "    \"أظهر مؤشر %s تقاطعًا إيجابيًا على إطار %s.\",\n", TrendIndicator, AnalysisTimeframe)
	fmt.Fprintf(&sb, "    \"مؤشر القوة النسبية (%s) عند 45 و يتجه للأعلى، مما يدعم الزخم الصاعد.\",\n", MomentumIndicator)
	sb.WriteString("    \"الأخبار الأخيرة عن الشركة إيجابية.\"\n")
	sb.WriteString("  ]\n")
	sb.WriteString("}\n")
	sb.WriteString("```\n")

	return sb.String()
}
