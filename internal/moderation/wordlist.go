package moderation

// Static blocklists in the community's languages: Arabic (common forms and
// letter-variant spellings), English, and transliterated Arabic including
// deliberately obfuscated spellings. Matching happens on normalized,
// separator-stripped text, so entries written with dots or underscores in
// chat still hit.
//
// Partitioned by the offense category they map to. When several lists match
// the same message, threats win over hate speech, and hate speech over
// profanity.

// threatTerms cover violent threats and terror references.
var threatTerms = []string{
	// Arabic
	"اقتلك", "اقتله", "اذبحك", "اذبحه", "سأقتلك", "هاجمك", "ارهاب", "ارهابي",
	// English
	"kill", "die", "murder", "rape", "threat", "terror",
}

// hateTerms cover slurs and hate speech aimed at groups.
var hateTerms = []string{
	// Arabic
	"لواط", "لوطي", "شاذ", "منحرف", "اللواط", "اللوطي", "الشاذ", "المنحرف",
	// English
	"nigger", "nigga", "faggot", "retard",
}

// profanityTerms cover general profanity and insults, the default category.
var profanityTerms = []string{
	// Arabic profanity (common forms and variations)
	"كس", "كوس", "بص", "بصص", "زبر", "أير", "اير", "زب", "لحس", "تفشيخ", "فشخ", "فشخك", "يفشخ",
	"نيك", "ينيك", "انيك", "تنيك", "مناك", "منيوك", "شرموط", "شرموطة", "عرص", "عرصة",
	"خول", "خولة", "قواد", "قحبة", "قحب", "متناك", "منيوكة", "وسخ", "حقير", "كلب", "ابن كلب",
	"ابن متناكة", "يلعن", "العن", "لعنة", "ملعون", "تبًا", "جحش", "جحشة", "خنزير", "حمار",
	"غبي", "غبية", "أهبل", "عبيط", "بهيمة", "زبالة", "زبل",
	"تبا", "نعل", "يعرص", "تعرص",
	"العرصة", "العرص", "القوادة", "القواد", "القحبة", "القحب", "المتناكة", "المتناك",
	"الملعونة", "الملعون", "ابن خول", "ابن خ.ول",
	// English profanity
	"fuck", "fucking", "fucker", "fck", "f*ck", "shit", "sh*t", "bitch", "bitches",
	"asshole", "bastard", "cunt", "cock", "dick", "pussy", "whore", "slut",
	// Transliterated Arabic
	"ksomak", "kosomak", "ksmk", "metnak", "metnaka",
}
