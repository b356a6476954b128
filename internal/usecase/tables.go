package usecase

import "regexp"

// Category names assigned to candidate line items
const (
	CategoryProduce   = "Fresh Produce"
	CategoryDairy     = "Dairy & Eggs"
	CategoryMeat      = "Meat & Seafood"
	CategoryPantry    = "Pantry Staples"
	CategoryBakery    = "Bakery"
	CategoryBeverages = "Beverages"
	CategoryFrozen    = "Frozen Foods"
	CategorySnacks    = "Snacks"
	CategoryHousehold = "Household"
	CategoryBaby      = "Baby"
	CategoryHealth    = "Health & Beauty"
	CategoryOther     = "Other"
)

// replacement is one ordered pattern -> replacement rule
type replacement struct {
	pattern *regexp.Regexp
	with    string
}

// ocrMisreadings maps single normalized words that OCR commonly gets wrong.
// Values must never appear as keys so normalization stays idempotent.
var ocrMisreadings = map[string]string{
	"butler":  "butter",
	"aarut":   "peanut",
	"quik":    "quick",
	"olve":    "olive",
	"vnegar":  "vinegar",
	"vinager": "vinegar",
	"chiken":  "chicken",
	"chicen":  "chicken",
	"saan":    "beans",
	"oninon":  "onion",
	"onoin":   "onion",
	"m1lk":    "milk",
	"bannana": "banana",
	"tomatoe": "tomato",
	"brocoli": "broccoli",
	"yogourt": "yogurt",
}

// ocrCorrections is applied in order to OCR text that found no inventory match
var ocrCorrections = []replacement{
	{regexp.MustCompile(`(?i)\baarut\s+butler\b`), "Peanut Butter"},
	{regexp.MustCompile(`(?i)\baarut\b`), "Peanut"},
	{regexp.MustCompile(`(?i)\bbutler\b`), "Butter"},
	{regexp.MustCompile(`(?i)\bolve\b`), "Olive"},
	{regexp.MustCompile(`(?i)\b(?:vnegar|vinager)\b`), "Vinegar"},
	{regexp.MustCompile(`(?i)\bchi(?:ken|cen)\b`), "Chicken"},
	{regexp.MustCompile(`(?i)\bsaan\b`), "Beans"},
	{regexp.MustCompile(`(?i)\b(?:oninon|onoin)(s?)\b`), "Onion$1"},
	{regexp.MustCompile(`(?i)\bquik\b`), "Quick"},
	{regexp.MustCompile(`(?i)\bm1lk\b`), "Milk"},
	{regexp.MustCompile(`(?i)\bc0ffee\b`), "Coffee"},
	{regexp.MustCompile(`(?i)\bbannana(s?)\b`), "Banana$1"},
	{regexp.MustCompile(`\s*-?\$?\d+[.,]\d{2}\s*$`), ""},
	{regexp.MustCompile(`\s+\d+(?:\.\d+)?\s*%\s*$`), ""},
	{regexp.MustCompile(`\s{2,}`), " "},
}

// matchStopWords are ignored by token overlap and word boosting
var matchStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "with": true, "organic": true, "fresh": true,
	"frozen": true, "canned": true, "dried": true, "raw": true, "cooked": true,
}

// abbreviations expands receipt abbreviations on the superstore layout.
// Keys are lowercase letters only.
var abbreviations = map[string]string{
	"chk":    "Chicken",
	"ckn":    "Chicken",
	"pc":     "PC",
	"bby":    "Baby",
	"brd":    "Bread",
	"grn":    "Green",
	"org":    "Organic",
	"wht":    "White",
	"whl":    "Whole",
	"ww":     "Whole Wheat",
	"bnls":   "Boneless",
	"sknls":  "Skinless",
	"brst":   "Breast",
	"grd":    "Ground",
	"grnd":   "Ground",
	"bf":     "Beef",
	"prk":    "Pork",
	"chs":    "Cheese",
	"ched":   "Cheddar",
	"mozz":   "Mozzarella",
	"mlk":    "Milk",
	"ygrt":   "Yogurt",
	"yog":    "Yogurt",
	"bnna":   "Banana",
	"bnnas":  "Bananas",
	"tom":    "Tomato",
	"toms":   "Tomatoes",
	"pot":    "Potato",
	"pots":   "Potatoes",
	"veg":    "Vegetable",
	"frz":    "Frozen",
	"crm":    "Cream",
	"btr":    "Butter",
	"choc":   "Chocolate",
	"strwb":  "Strawberry",
	"blubry": "Blueberry",
	"sce":    "Sauce",
	"pnt":    "Peanut",
	"nn":     "No Name",
	"sel":    "Selection",
	"bl":     "Blue Menu",
	"lg":     "Large",
	"sm":     "Small",
	"asst":   "Assorted",
	"oj":     "Orange Juice",
	"saus":   "Sausage",
	"sausg":  "Sausage",
	"bcn":    "Bacon",
	"pk":     "Pack",
	"sprd":   "Spread",
	"grnola": "Granola",
	"crkr":   "Cracker",
	"crkrs":  "Crackers",
	"ff":     "Free From",
	"ss":     "Seedless",
}

// productKeywords is the allow-list of words that mark a superstore line as a product.
// Single-word category keywords are accepted too.
var productKeywords = map[string]bool{
	"milk": true, "bread": true, "egg": true, "eggs": true, "cheese": true,
	"chicken": true, "beef": true, "pork": true, "turkey": true, "fish": true,
	"salmon": true, "shrimp": true, "bacon": true, "ham": true, "sausage": true,
	"apple": true, "banana": true, "orange": true, "grape": true, "berry": true,
	"lettuce": true, "tomato": true, "potato": true, "onion": true, "carrot": true,
	"pepper": true, "cucumber": true, "avocado": true, "lemon": true, "lime": true,
	"yogurt": true, "butter": true, "cream": true, "juice": true, "water": true,
	"coffee": true, "tea": true, "soda": true, "cereal": true, "oats": true,
	"rice": true, "pasta": true, "flour": true, "sugar": true, "salt": true,
	"oil": true, "sauce": true, "soup": true, "beans": true, "chips": true,
	"crackers": true, "cookies": true, "chocolate": true, "candy": true,
	"frozen": true, "pizza": true, "fries": true, "ice": true, "bagel": true,
	"bagels": true, "buns": true, "tortilla": true, "tortillas": true,
	"wrap": true, "wraps": true, "muffin": true, "muffins": true, "cake": true,
	"diaper": true, "diapers": true, "wipes": true, "formula": true,
	"tissue": true, "towel": true, "towels": true, "detergent": true,
	"soap": true, "shampoo": true, "toothpaste": true, "foil": true,
	"organic": true, "whole": true, "wheat": true, "grain": true, "lean": true,
	"ground": true, "breast": true, "thigh": true, "thighs": true, "wings": true,
	"fillet": true, "fillets": true, "steak": true, "roast": true, "deli": true,
	"hummus": true, "salsa": true, "dip": true, "spread": true, "jam": true,
	"honey": true, "syrup": true, "ketchup": true, "mustard": true, "mayo": true,
	"noodles": true, "ramen": true, "broth": true, "stock": true, "granola": true,
	"snack": true, "bar": true, "bars": true, "nuts": true, "almonds": true,
	"peanut": true, "popcorn": true, "pretzels": true, "drink": true,
	"sparkling": true, "lemonade": true, "kombucha": true, "smoothie": true,
	"mozzarella": true, "cheddar": true, "parmesan": true, "feta": true,
	"spinach": true, "kale": true, "broccoli": true, "celery": true,
	"mushroom": true, "mushrooms": true, "garlic": true, "ginger": true,
	"strawberries": true, "blueberries": true, "raspberries": true,
	"grapes": true, "cherries": true, "pear": true, "pears": true,
	"peach": true, "mango": true, "pineapple": true, "melon": true,
}

// categoryRule lists the keywords that assign one category
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules are checked in order. Multi-word keywords are tried across all
// rules before any single word.
var categoryRules = []categoryRule{
	{CategoryFrozen, []string{
		"frozen", "ice cream", "popsicle", "pizza", "waffles", "fries", "nuggets",
		"frozen vegetables", "frozen fruit", "gelato", "sorbet",
	}},
	{CategoryBeverages, []string{
		"juice", "soda", "pop", "water", "coffee", "tea", "cola", "lemonade",
		"kombucha", "beer", "wine", "drink", "smoothie", "sparkling water",
		"almond milk", "oat milk", "soy milk", "energy drink",
	}},
	{CategoryBakery, []string{
		"bread", "bagel", "bun", "baguette", "croissant", "muffin", "tortilla",
		"pita", "naan", "cake", "donut", "doughnut", "pastry", "loaf", "scone",
		"english muffin", "hamburger buns", "hot dog buns",
	}},
	{CategoryMeat, []string{
		"chicken", "beef", "pork", "turkey", "lamb", "bacon", "ham", "sausage",
		"steak", "salmon", "tuna", "shrimp", "fish", "cod", "tilapia", "crab",
		"lobster", "wings", "thighs", "breast", "ribs", "meatballs", "salami",
		"pepperoni", "prosciutto", "ground beef", "pork chops",
	}},
	{CategoryDairy, []string{
		"milk", "cheese", "cheddar", "mozzarella", "parmesan", "feta", "yogurt",
		"yoghurt", "butter", "cream", "egg", "margarine", "kefir", "ghee",
		"sour cream", "cream cheese", "cottage cheese", "whipping cream",
	}},
	{CategorySnacks, []string{
		"chips", "crackers", "cookie", "candy", "chocolate", "popcorn",
		"pretzels", "nuts", "almonds", "cashews", "peanuts", "granola", "gum",
		"jerky", "granola bar", "trail mix", "potato chips", "tortilla chips",
	}},
	{CategoryPantry, []string{
		"rice", "pasta", "flour", "sugar", "salt", "oil", "vinegar", "sauce",
		"beans", "lentils", "cereal", "oats", "oatmeal", "soup", "honey", "jam",
		"ketchup", "mustard", "mayo", "mayonnaise", "spice", "noodles",
		"spaghetti", "macaroni", "broth", "stock", "quinoa", "syrup", "yeast",
		"peanut butter", "olive oil", "tomato sauce", "baking soda",
		"baking powder", "maple syrup", "canned",
	}},
	{CategoryProduce, []string{
		"apple", "banana", "orange", "lemon", "lime", "grape", "berries",
		"strawberry", "strawberries", "blueberry", "blueberries", "raspberry",
		"raspberries", "cherry", "cherries", "peach", "pear", "plum", "mango",
		"pineapple", "watermelon", "melon", "kiwi", "avocado", "tomato",
		"potato", "onion", "garlic", "carrot", "celery", "lettuce", "spinach",
		"kale", "broccoli", "cauliflower", "cabbage", "cucumber", "pepper",
		"zucchini", "squash", "mushroom", "corn", "peas", "asparagus",
		"eggplant", "ginger", "cilantro", "parsley", "basil", "romaine",
		"arugula", "radish", "beet", "yam", "produce", "fruit", "vegetable",
		"sweet potato", "green beans", "green onion", "bell pepper",
	}},
}

// superstoreDepartments maps section header department words to categories
var superstoreDepartments = map[string]string{
	"grocery":  CategoryPantry,
	"dairy":    CategoryDairy,
	"frozen":   CategoryFrozen,
	"produce":  CategoryProduce,
	"meat":     CategoryMeat,
	"meats":    CategoryMeat,
	"seafood":  CategoryMeat,
	"deli":     CategoryMeat,
	"bakery":   CategoryBakery,
	"home":     CategoryHousehold,
	"baby":     CategoryBaby,
	"health":   CategoryHealth,
	"beauty":   CategoryHealth,
	"pharmacy": CategoryHealth,
	"other":    CategoryOther,
}

// superstoreMarkers identify receipts printed by the superstore banner family
var superstoreMarkers = []string{
	"real canadian", "superstore", "rcss", "loblaws", "no frills", "nofrills",
}
