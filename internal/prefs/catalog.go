package prefs

// Dashboard labels per concrete language. Keys use dotted sections.
var catalog = map[Language]map[string]string{
	LanguageEnglish: {
		"sensors.title":            "Live Environmental Data",
		"sensors.airQuality":       "Air Quality",
		"sensors.waterPurity":      "Water Purity",
		"sensors.soilMoisture":     "Soil Moisture",
		"sensors.biodiversity":     "Biodiversity",
		"sensors.co2":              "CO₂",
		"sensors.pm25":             "PM2.5",
		"sensors.ph":               "pH",
		"sensors.turbidity":        "Turbidity",
		"sensors.value":            "Value",
		"sensors.status":           "Status",
		"sensors.status.excellent": "Excellent",
		"sensors.status.good":      "Good",
		"sensors.status.moderate":  "Moderate",
		"sensors.status.poor":      "Poor",
		"sensors.status.critical":  "Critical",
		"health.title":             "Planet Health",
		"health.overall":           "Overall Ecosystem Health",
		"actions.title":            "Eco Actions",
		"actions.subtitle":         "Based on current sensor readings",
		"actions.airQualityLow":    "Air quality is low → Reduce vehicle emissions and industrial output",
		"actions.airQualityGood":   "Air quality is good → Maintain current environmental practices",
		"actions.waterPurityLow":   "Water purity is concerning → Implement water treatment and reduce pollution",
		"actions.waterPurityGood":  "Water quality is excellent → Continue water conservation efforts",
		"actions.soilDry":          "Soil moisture is low → Implement efficient irrigation and drought-resistant crops",
		"actions.soilGood":         "Soil moisture is optimal → Maintain current agricultural practices",
		"actions.biodiversityLow":  "Biodiversity is declining → Protect natural habitats and reduce deforestation",
		"actions.biodiversityGood": "Biodiversity is thriving → Continue conservation efforts",
		"settings.language":        "Language",
		"settings.theme":           "Theme",
		"settings.light":           "Light",
		"settings.dark":            "Dark",
		"settings.system":          "System",
	},
	LanguageArabic: {
		"sensors.title":            "البيانات البيئية المباشرة",
		"sensors.airQuality":       "جودة الهواء",
		"sensors.waterPurity":      "نقاء الماء",
		"sensors.soilMoisture":     "رطوبة التربة",
		"sensors.biodiversity":     "التنوع البيولوجي",
		"sensors.co2":              "ثاني أكسيد الكربون",
		"sensors.pm25":             "الجسيمات الدقيقة",
		"sensors.ph":               "الأس الهيدروجيني",
		"sensors.turbidity":        "العكارة",
		"sensors.value":            "القيمة",
		"sensors.status":           "الحالة",
		"sensors.status.excellent": "ممتاز",
		"sensors.status.good":      "جيد",
		"sensors.status.moderate":  "متوسط",
		"sensors.status.poor":      "ضعيف",
		"sensors.status.critical":  "حرج",
		"health.title":             "صحة الكوكب",
		"health.overall":           "الصحة الشاملة للنظام البيئي",
		"actions.title":            "الإجراءات البيئية",
		"actions.subtitle":         "بناءً على قراءات المستشعرات الحالية",
		"actions.airQualityLow":    "جودة الهواء منخفضة ← قلل من انبعاثات المركبات والمخرجات الصناعية",
		"actions.airQualityGood":   "جودة الهواء جيدة ← حافظ على الممارسات البيئية الحالية",
		"actions.waterPurityLow":   "نقاء الماء مقلق ← نفذ معالجة المياه وقلل التلوث",
		"actions.waterPurityGood":  "جودة الماء ممتازة ← استمر في جهود الحفاظ على المياه",
		"actions.soilDry":          "رطوبة التربة منخفضة ← نفذ ري فعال ومحاصيل مقاومة للجفاف",
		"actions.soilGood":         "رطوبة التربة مثالية ← حافظ على الممارسات الزراعية الحالية",
		"actions.biodiversityLow":  "التنوع البيولوجي في تراجع ← احمِ الموائل الطبيعية وقلل إزالة الغابات",
		"actions.biodiversityGood": "التنوع البيولوجي مزدهر ← استمر في جهود الحفاظ",
		"settings.language":        "اللغة",
		"settings.theme":           "المظهر",
		"settings.light":           "فاتح",
		"settings.dark":            "داكن",
		"settings.system":          "النظام",
	},
}

// T looks up key for a concrete language. Unknown keys are returned as-is;
// "system" or unknown languages use English.
func T(lang Language, key string) string {
	labels, ok := catalog[lang]
	if !ok {
		labels = catalog[LanguageEnglish]
	}
	if v, ok := labels[key]; ok {
		return v
	}
	return key
}
