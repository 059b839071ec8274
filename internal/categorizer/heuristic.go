package categorizer

import (
	"regexp"

	"fjacquet/expense-analyzer/internal/models"
)

// HeuristicRule maps a description pattern to a category.
type HeuristicRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Category models.Category
}

// HeuristicTable is an ordered rule list; earlier rules take priority.
type HeuristicTable []HeuristicRule

// Match returns the first rule whose pattern matches any of texts.
func (t HeuristicTable) Match(texts ...string) (HeuristicRule, bool) {
	for _, rule := range t {
		for _, text := range texts {
			if text != "" && rule.Pattern.MatchString(text) {
				return rule, true
			}
		}
	}
	return HeuristicRule{}, false
}

// Prepend returns a new table with rules ahead of t.
func (t HeuristicTable) Prepend(rules ...HeuristicRule) HeuristicTable {
	out := make(HeuristicTable, 0, len(rules)+len(t))
	out = append(out, rules...)
	return append(out, t...)
}

func rule(name string, category models.Category, pattern string) HeuristicRule {
	return HeuristicRule{
		Name:     name,
		Pattern:  regexp.MustCompile(`(?i)` + pattern),
		Category: category,
	}
}

// DefaultHeuristics returns the built-in table. Income and money movements come
// first so that a payroll deposit at a merchant-like name is never spend.
func DefaultHeuristics() HeuristicTable {
	return HeuristicTable{
		rule("payroll", models.CategoryIncome,
			`\b(PAYROLL|DIRECT DEP(OSIT)?|DIR DEP|SALARY|PAYCHECK)\b`),
		rule("interest-earned", models.CategoryIncome,
			`\b(INTEREST (PAID|EARNED|PAYMENT)|DIVIDEND)\b`),
		rule("card-payment", models.CategoryExclude,
			`\b((CREDIT CRD|CREDIT CARD|CRD|CARD) (AUTOPAY|AUTO PAY|AUTOMATIC PAYMENT)|PAYMENT THANK YOU|PAYMENT - THANK YOU|CREDIT CARD PAYMENT|CARD PAYMENT|EPAYMENT|CRCARDPMT)\b`),
		rule("p2p-transfer", models.CategoryExclude,
			`\b(ZELLE|VENMO|CASH APP)\b.*\b(TRANSFER|CASHOUT|CASH OUT|TO SELF|INSTANT)\b`),
		rule("transfer", models.CategoryExclude,
			`\b(TRANSFER|XFER|ONLINE TRANSFER|INTERNAL TRANSFER|SAVINGS)\b`),
		rule("fees", models.CategoryFees,
			`\b(FEE|FEES|OVERDRAFT|INTEREST CHARGE|FINANCE CHARGE|LATE CHARGE)\b`),
		rule("cash", models.CategoryCash,
			`\b(ATM|CASH WITHDRAWAL|WITHDRAWAL)\b`),
		rule("taxes", models.CategoryTaxes,
			`\b(IRS|USATAXPYMT|TAX PAYMENT|STATE TAX|PROPERTY TAX|FRANCHISE TAX)\b`),
		rule("insurance", models.CategoryInsurance,
			`\b(INSURANCE|GEICO|STATE FARM|PROGRESSIVE|ALLSTATE|LIBERTY MUTUAL)\b`),
		rule("housing", models.CategoryHousing,
			`\b(RENT|MORTGAGE|HOA|APARTMENTS?|PROPERTY MGMT|LANDLORD)\b`),
		rule("utilities", models.CategoryUtilities,
			`\b(COMCAST|XFINITY|VERIZON|AT&T|T-MOBILE|SPECTRUM|PG&E|CON ED|DUKE ENERGY|ELECTRIC|WATER|INTERNET|GAS CO)\b`),
		rule("subscriptions", models.CategorySubscriptions,
			`\b(NETFLIX|SPOTIFY|HULU|DISNEY PLUS|DISNEYPLUS|HBO|YOUTUBE PREMIUM|AMAZON PRIME|PRIME VIDEO|APPLE\.COM/BILL|ICLOUD|PATREON|AUDIBLE)\b`),
		rule("groceries", models.CategoryGroceries,
			`\b(WHOLE ?FOODS|WHOLEFDS|TRADER JOE|SAFEWAY|KROGER|ALDI|PUBLIX|COSTCO|WEGMANS|SPROUTS|H-E-B|HEB|FOOD LION|GROCERY|SUPERMARKET|MARKET BASKET)`),
		rule("dining", models.CategoryDining,
			`\b(STARBUCKS|MCDONALD|CHIPOTLE|DOORDASH|UBER ?EATS|GRUBHUB|RESTAURANT|CAFE|COFFEE|PIZZA|BURGER|SUSHI|TACO|DUNKIN|PANERA|SUBWAY|SHAKE SHACK|GRILL|BAKERY)`),
		rule("transportation", models.CategoryTransportation,
			`\b(UBER|LYFT|SHELL|CHEVRON|EXXON|MOBIL|BP|PARKING|TOLL|TRANSIT|METRO|FUEL|GAS STATION)\b`),
		rule("travel", models.CategoryTravel,
			`\b(AIRLINES?|AIRBNB|MARRIOTT|HILTON|HYATT|HOTEL|EXPEDIA|BOOKING\.COM|DELTA AIR|UNITED AIR|SOUTHWEST|JETBLUE|AMTRAK)\b`),
		rule("healthcare", models.CategoryHealthcare,
			`\b(CVS|WALGREENS|PHARMACY|DENTAL|MEDICAL|HOSPITAL|CLINIC|DOCTOR|HEALTH)\b`),
		rule("entertainment", models.CategoryEntertainment,
			`\b(AMC|CINEMA|THEATER|THEATRE|TICKETMASTER|STEAM|PLAYSTATION|XBOX|NINTENDO|CONCERT)\b`),
		rule("education", models.CategoryEducation,
			`\b(TUITION|UNIVERSITY|COLLEGE|COURSERA|UDEMY|SCHOOL|BOOKSTORE)\b`),
		rule("personal-care", models.CategoryPersonalCare,
			`\b(SALON|BARBER|SPA|SEPHORA|ULTA|NAILS?)\b`),
		rule("gifts", models.CategoryGifts,
			`\b(GIFT|DONATION|CHARITY|GOFUNDME|FLORIST)\b`),
		rule("shopping", models.CategoryShopping,
			`\b(AMAZON|AMZN|TARGET|WALMART|BEST BUY|EBAY|ETSY|IKEA|HOME DEPOT|LOWES|MACYS|NORDSTROM)\b`),
	}
}
