package lexicon

import "regexp"

// Category names a pattern table
type Category string

const (
	Negative        Category = "negative"
	FigureReference Category = "figure_reference"
	RomanPremise    Category = "roman_premise"
	ArabicPremise   Category = "arabic_premise"
	BulletPremise   Category = "bullet_premise"
	Ordering        Category = "ordering"
	StemPattern     Category = "stem_pattern"
	Connector       Category = "connector"

	Computation        Category = "computation"
	Concept            Category = "concept"
	Relation           Category = "relation"
	ReadingTrap        Category = "reading_trap"
	TimeSink           Category = "time_sink"
	PatternRecognition Category = "pattern_recognition"
)

// Pattern is one weighted marker expression
type Pattern struct {
	Expr   string
	Weight float64
}

// Table is a category of markers sharing match options
type Table struct {
	Category      Category
	CaseSensitive bool
	Patterns      []Pattern
}

func unit(exprs ...string) []Pattern {
	out := make([]Pattern, len(exprs))
	for i, e := range exprs {
		out[i] = Pattern{Expr: e, Weight: 1}
	}
	return out
}

// DefaultTables returns the Turkish marker tables
func DefaultTables() []Table {
	return []Table{
		{Category: Negative, Patterns: unit(
			`\bdeğildir\b`, `\byanlıştır\b`, `\bolamaz\b`, `\byoktur\b`,
			`\bsöylenemez\b`, `\bbulunamaz\b`, `\biçermez\b`, `\bgöstermez\b`,
			`\bbelirtmez\b`, `\bdoğru\s+değildir\b`, `\bgeçerli\s+değildir\b`,
			`\buygun\s+değildir\b`, `\başağıdakilerden\s+hangisi\s+.*\s+değildir\b`,
			`\bhangisi\s+.*\s+olamaz\b`, `\bhangisi\s+.*\s+yoktur\b`,
		)},
		{Category: FigureReference, Patterns: unit(
			`\bşekil\b`, `\bşekilde\b`, `\bşekilden\b`,
			`\bgrafik\b`, `\bgrafikte\b`, `\bgrafikten\b`,
			`\btablo\b`, `\btabloda\b`, `\btablodan\b`,
			`\bdiyagram\b`, `\bgörsel\b`, `\bçizim\b`, `\bharita\b`, `\bharitada\b`,
		)},
		// premise markers: "I. ...", "II) ...", "1- ...", "• ..."
		{Category: RomanPremise, CaseSensitive: true, Patterns: unit(
			`\b(I{1,3}|IV|V|VI{0,3})\b(?:\s*[.)\-:]|\s+[A-ZÇĞİÖŞÜa-zçğıöşü])`,
		)},
		{Category: ArabicPremise, CaseSensitive: true, Patterns: unit(`\b(\d+)\s*[.)\-:]`)},
		{Category: BulletPremise, CaseSensitive: true, Patterns: unit(`[•●○◦]\s*`)},
		{Category: Ordering, Patterns: unit(
			`\bsıralama\b`, `\bsırala\b`, `\bhangisi\s+doğru\b`,
			`\bbüyükten\s+küçüğe\b`, `\bküçükten\s+büyüğe\b`,
			`\bartan\b`, `\bazalan\b`, `\bdoğru\s+sıra\b`,
		)},
		{Category: StemPattern, Patterns: unit(
			`\başağıdakilerden\s+hangisi\b`, `\bhangisi\s+doğrudur\b`,
			`\bhangisi\s+yanlıştır\b`, `\bbuna\s+göre\b`, `\byukarıda\s+verilen\b`,
			`\başağıda\s+verilen\b`, `\byukarıdaki\b`, `\başağıdaki\b`,
			`\bhangileri\b`, `\byalnız\b`, `\ben\s+az\b`, `\ben\s+çok\b`,
			`\ben\s+fazla\b`, `\bkaç\s+tanesi\b`, `\bkaçıdır\b`, `\bkaçtır\b`,
		)},
		{Category: Connector, Patterns: unit(
			`\bve\b`, `\bveya\b`, `\bfakat\b`, `\bama\b`, `\bçünkü\b`,
			`\bdolayısıyla\b`, `\böyleyse\b`, `\bise\b`, `\bile\b`,
			`\bbuna\s+karşın\b`, `\böte\s+yandan\b`, `\bsonuç\s+olarak\b`,
		)},

		{Category: Computation, Patterns: unit(
			`\bhesapla\b`, `\bbul\b`, `\bkaç\b`, `\bkaçtır\b`,
			`\btoplam\b`, `\bfark\b`, `\bortalama\b`, `\byüzde\b`,
			`[+\-*/=]`, `\d+\s*[+\-*/]\s*\d+`,
			`\bçarp\b`, `\bböl\b`, `\btopla\b`, `\bçıkar\b`,
			`\bx\s*=`, `\by\s*=`,
			`\beşitli[kğ]\b`, `\bdenklem\b`,
		)},
		{Category: Concept, Patterns: unit(
			`\bnedir\b`, `\btanım\b`, `\bözellik\b`, `\bkavram\b`,
			`\badlandır\b`, `\bbilgi\b`, `\bile\s+ilgili\b`,
			`\börnektir\b`, `\börneğidir\b`, `\bçeşit\b`,
			`\btür\b`, `\bsınıf\b`, `\bgrubu\b`,
			`\binceleme\b`, `\baçıkla\b`,
		)},
		{Category: Relation, Patterns: unit(
			`\bkarşılaştır\b`, `\bfark\b`, `\bbenzer\b`, `\bilişki\b`,
			`\bbağlantı\b`, `\betki\b`, `\bneden\b`, `\bsonuç\b`,
			`\böyleyse\b`, `\bdolayısıyla\b`, `\bçünkü\b`,
			`\bI,?\s*II,?\s*(ve)?\s*III\b`,
			`\bhangisi.*değildir\b`, `\bhangisi.*yanlıştır\b`,
			`\bise\b.*\b(ise|de|da)\b`,
		)},
		{Category: ReadingTrap, Patterns: unit(
			`\ben\s+az\b`, `\ben\s+çok\b`, `\ben\s+fazla\b`,
			`\byalnız\b`, `\bsadece\b`, `\byalnızca\b`,
			`\bkesinlikle\b`, `\bmutlaka\b`, `\bher\s+zaman\b`,
			`\bhiçbir\b`, `\basla\b`, `\bhiç\b`,
			`\bdeğildir\b`, `\byanlıştır\b`, `\bolamaz\b`,
			`\bhepsi\b`, `\btümü\b`, `\btamamı\b`,
		)},
		{Category: TimeSink, Patterns: unit(
			`\badım\b`, `\bsırayla\b`, `\bönce.*sonra\b`,
			`\başama\b`, `\bişlem\b`, `\byöntem\b`,
		)},
		{Category: PatternRecognition, Patterns: unit(
			`\bgrafik\b`, `\btablo\b`, `\bşekil\b`, `\bdiyagram\b`,
			`\bdizi\b`, `\bseri\b`, `\börüntü\b`, `\bkural\b`,
			`\bdevam\b`, `\bsonraki\b`, `\bbir\s+sonraki\b`,
			`\bartış\b`, `\bazalış\b`, `\beğilim\b`, `\btrend\b`,
			`\bkorelasyon\b`, `\bilişki\b`,
		)},
	}
}

// Choice and number shapes. These only need ASCII classes, so RE2 serves.
var (
	NumericChoice    = regexp.MustCompile(`^[\d\s\.,/\+\-\*=<>√π²³]+$`)
	ExpressionChoice = regexp.MustCompile(`[a-zA-Z]\s*[=<>+\-*/^²³]|[=<>+\-*/^²³]\s*[a-zA-Z]|^\s*[a-zA-Z]\s*$`)
	MathToken        = regexp.MustCompile(`[=<>+\-*/²³√πΣ∫∞≤≥≠∈∉⊂⊃∪∩]|\d+[.,]?\d*`)
	LeadingNumber    = regexp.MustCompile(`[\d.,]+`)
	SignedNumber     = regexp.MustCompile(`[-+]?\d*[.,]?\d+`)
)

// ComparisonOperators mark choices written as orderings ("a < b < c")
var ComparisonOperators = []string{"<", ">", "≤", "≥"}
