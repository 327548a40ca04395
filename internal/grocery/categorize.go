package grocery

import "strings"

// Category is a shopping-aisle grouping.
type Category string

const (
	Produce Category = "produce"
	Meat    Category = "meat"
	Dairy   Category = "dairy"
	Bakery  Category = "bakery"
	Frozen  Category = "frozen"
	Pantry  Category = "pantry"
	Spices  Category = "spices"
	Other   Category = "other"
)

// CategoryOrder is the order categories are walked in the store.
var CategoryOrder = []Category{Produce, Meat, Dairy, Bakery, Frozen, Pantry, Spices, Other}

// Rank returns the position of c in CategoryOrder. Unknown categories sort
// with Other.
func (c Category) Rank() int {
	for i, cat := range CategoryOrder {
		if cat == c {
			return i
		}
	}
	return len(CategoryOrder) - 1
}

// ParseCategory accepts a category name in any case. ok is false for names
// outside the fixed set.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, cat := range CategoryOrder {
		if cat == c {
			return c, true
		}
	}
	return "", false
}

// minFuzzyKeyLen keeps short keys like "pea" from matching inside "peanut".
const minFuzzyKeyLen = 4

// CategorizeItem resolves the category of an item name. Resolution order:
// exact table lookup, suffix rules, keyword rules, then a scan for any table
// key of at least four characters contained in the name. ok is false when
// nothing matches.
func CategorizeItem(name string) (Category, bool) {
	n := NormalizeItemName(name)
	if n == "" {
		return "", false
	}

	if cat, ok := exactIndex[n]; ok {
		return cat, true
	}

	for _, r := range suffixRules {
		if strings.HasSuffix(n, r.key) {
			return r.category, true
		}
	}

	for _, r := range keywordRules {
		if strings.Contains(n, r.key) {
			return r.category, true
		}
	}

	for _, e := range categoryTable {
		if len(e.key) >= minFuzzyKeyLen && strings.Contains(n, e.key) {
			return e.category, true
		}
	}

	return "", false
}

// Categorize is CategorizeItem with Other for unresolved names.
func Categorize(name string) Category {
	if cat, ok := CategorizeItem(name); ok {
		return cat
	}
	return Other
}

type rule struct {
	key      string
	category Category
}

var exactIndex = func() map[string]Category {
	m := make(map[string]Category, len(categoryTable))
	for _, e := range categoryTable {
		if _, dup := m[e.key]; !dup {
			m[e.key] = e.category
		}
	}
	return m
}()

// Ordered most specific first. The last word of every key is already singular.
var suffixRules = []rule{
	{"berry", Produce},
	{"melon", Produce},
	{"lettuce", Produce},
	{"squash", Produce},
	{"mushroom", Produce},
	{"onion", Produce},
	{"greens", Produce},

	{"thigh", Meat},
	{"fillet", Meat},
	{"sausage", Meat},
	{"steak", Meat},
	{"chop", Meat},

	{"cheese", Dairy},
	{"yogurt", Dairy},
	{"milk", Dairy},
	{"cream", Dairy},

	{"bread", Bakery},
	{"bagel", Bakery},
	{"bun", Bakery},
	{"roll", Bakery},
	{"tortilla", Bakery},
	{"croissant", Bakery},

	{"sauce", Pantry},
	{"oil", Pantry},
	{"vinegar", Pantry},
	{"broth", Pantry},
	{"stock", Pantry},
	{"paste", Pantry},
	{"soup", Pantry},
	{"noodles", Pantry},
	{"pasta", Pantry},
	{"rice", Pantry},
	{"bean", Pantry},
	{"syrup", Pantry},
	{"chutney", Pantry},

	{"powder", Spices},
	{"seasoning", Spices},
	{"extract", Spices},
	{"flake", Spices},
	{"seed", Spices},
	{"spice", Spices},
}

var keywordRules = []rule{
	{"frozen", Frozen},
	{"chicken", Meat},
	{"beef", Meat},
	{"pork", Meat},
	{"turkey", Meat},
	{"lamb", Meat},
	{"salmon", Meat},
	{"shrimp", Meat},
	{"bacon", Meat},
	{"prosciutto", Meat},
	{"chorizo", Meat},
}

// categoryTable is the static name table. Its order is significant: the
// fallback containment scan takes the first matching key.
var categoryTable = []rule{
	// Produce
	{"onion", Produce},
	{"red onion", Produce},
	{"garlic", Produce},
	{"shallot", Produce},
	{"tomato", Produce},
	{"cherry tomato", Produce},
	{"potato", Produce},
	{"sweet potato", Produce},
	{"carrot", Produce},
	{"celery", Produce},
	{"bell pepper", Produce},
	{"sweet pepper", Produce},
	{"jalapeño", Produce},
	{"jalapeno", Produce},
	{"serrano", Produce},
	{"poblano", Produce},
	{"broccoli", Produce},
	{"broccolini", Produce},
	{"cauliflower", Produce},
	{"spinach", Produce},
	{"baby spinach", Produce},
	{"lettuce", Produce},
	{"romaine", Produce},
	{"arugula", Produce},
	{"kale", Produce},
	{"swiss chard", Produce},
	{"collard greens", Produce},
	{"cabbage", Produce},
	{"bok choy", Produce},
	{"brussels sprout", Produce},
	{"cucumber", Produce},
	{"zucchini", Produce},
	{"eggplant", Produce},
	{"squash", Produce},
	{"butternut squash", Produce},
	{"mushroom", Produce},
	{"asparagus", Produce},
	{"green bean", Produce},
	{"snap pea", Produce},
	{"pea", Produce},
	{"bean sprout", Produce},
	{"corn", Produce},
	{"radish", Produce},
	{"beet", Produce},
	{"turnip", Produce},
	{"parsnip", Produce},
	{"leek", Produce},
	{"fennel", Produce},
	{"artichoke", Produce},
	{"avocado", Produce},
	{"scallion", Produce},
	{"green onion", Produce},
	{"ginger", Produce},
	{"lemongrass", Produce},
	{"cilantro", Produce},
	{"parsley", Produce},
	{"basil", Produce},
	{"mint", Produce},
	{"dill", Produce},
	{"chives", Produce},
	{"fresh herbs", Produce},
	{"lemon", Produce},
	{"lime", Produce},
	{"orange", Produce},
	{"apple", Produce},
	{"banana", Produce},
	{"pear", Produce},
	{"peach", Produce},
	{"plum", Produce},
	{"grape", Produce},
	{"mango", Produce},
	{"pineapple", Produce},
	{"watermelon", Produce},
	{"strawberry", Produce},
	{"blueberry", Produce},
	{"raspberry", Produce},
	{"cherry", Produce},
	{"pomegranate", Produce},
	{"kiwi", Produce},

	// Meat and other proteins
	{"chicken", Meat},
	{"chicken breast", Meat},
	{"chicken thigh", Meat},
	{"chicken wing", Meat},
	{"whole chicken", Meat},
	{"beef", Meat},
	{"ground beef", Meat},
	{"flank steak", Meat},
	{"steak", Meat},
	{"pork", Meat},
	{"ground pork", Meat},
	{"pork chop", Meat},
	{"pork tenderloin", Meat},
	{"ham", Meat},
	{"bacon", Meat},
	{"sausage", Meat},
	{"italian sausage", Meat},
	{"chorizo", Meat},
	{"prosciutto", Meat},
	{"turkey", Meat},
	{"ground turkey", Meat},
	{"lamb", Meat},
	{"salmon", Meat},
	{"tuna", Meat},
	{"cod", Meat},
	{"tilapia", Meat},
	{"halibut", Meat},
	{"fish", Meat},
	{"shrimp", Meat},
	{"scallop", Meat},
	{"mussel", Meat},
	{"crab", Meat},
	{"tofu", Meat},
	{"tempeh", Meat},
	{"seitan", Meat},

	// Dairy
	{"butter", Dairy},
	{"unsalted butter", Dairy},
	{"milk", Dairy},
	{"whole milk", Dairy},
	{"buttermilk", Dairy},
	{"cream", Dairy},
	{"heavy cream", Dairy},
	{"sour cream", Dairy},
	{"half and half", Dairy},
	{"yogurt", Dairy},
	{"greek yogurt", Dairy},
	{"egg", Dairy},
	{"cheese", Dairy},
	{"cheddar", Dairy},
	{"parmesan", Dairy},
	{"mozzarella", Dairy},
	{"ricotta", Dairy},
	{"feta", Dairy},
	{"feta cheese", Dairy},
	{"goat cheese", Dairy},
	{"cream cheese", Dairy},
	{"cottage cheese", Dairy},
	{"gruyere", Dairy},
	{"halloumi", Dairy},
	{"paneer", Dairy},
	{"queso fresco", Dairy},
	{"ghee", Dairy},

	// Bakery
	{"bread", Bakery},
	{"sourdough", Bakery},
	{"baguette", Bakery},
	{"ciabatta", Bakery},
	{"brioche", Bakery},
	{"naan", Bakery},
	{"pita", Bakery},
	{"pita bread", Bakery},
	{"tortilla", Bakery},
	{"flour tortilla", Bakery},
	{"corn tortilla", Bakery},
	{"bagel", Bakery},
	{"croissant", Bakery},
	{"hamburger bun", Bakery},
	{"dinner roll", Bakery},
	{"english muffin", Bakery},
	{"flatbread", Bakery},

	// Frozen
	{"ice cream", Frozen},
	{"frozen pea", Frozen},
	{"frozen corn", Frozen},
	{"frozen spinach", Frozen},
	{"frozen berry", Frozen},
	{"frozen shrimp", Frozen},
	{"frozen pizza", Frozen},
	{"puff pastry", Frozen},
	{"pie crust", Frozen},
	{"edamame", Frozen},

	// Pantry
	{"olive oil", Pantry},
	{"extra virgin olive oil", Pantry},
	{"vegetable oil", Pantry},
	{"canola oil", Pantry},
	{"sesame oil", Pantry},
	{"coconut oil", Pantry},
	{"soy sauce", Pantry},
	{"tamari", Pantry},
	{"fish sauce", Pantry},
	{"oyster sauce", Pantry},
	{"hoisin sauce", Pantry},
	{"worcestershire sauce", Pantry},
	{"hot sauce", Pantry},
	{"sriracha", Pantry},
	{"tomato sauce", Pantry},
	{"tomato paste", Pantry},
	{"canned tomato", Pantry},
	{"crushed tomato", Pantry},
	{"diced tomato", Pantry},
	{"marinara", Pantry},
	{"salsa", Pantry},
	{"vinegar", Pantry},
	{"rice vinegar", Pantry},
	{"balsamic vinegar", Pantry},
	{"chicken broth", Pantry},
	{"beef broth", Pantry},
	{"vegetable broth", Pantry},
	{"chicken stock", Pantry},
	{"broth", Pantry},
	{"stock", Pantry},
	{"coconut milk", Pantry},
	{"sugar", Pantry},
	{"brown sugar", Pantry},
	{"honey", Pantry},
	{"maple syrup", Pantry},
	{"molasses", Pantry},
	{"flour", Pantry},
	{"all-purpose flour", Pantry},
	{"cornstarch", Pantry},
	{"baking powder", Pantry},
	{"baking soda", Pantry},
	{"yeast", Pantry},
	{"rice", Pantry},
	{"brown rice", Pantry},
	{"jasmine rice", Pantry},
	{"basmati rice", Pantry},
	{"arborio rice", Pantry},
	{"quinoa", Pantry},
	{"couscous", Pantry},
	{"oats", Pantry},
	{"rolled oats", Pantry},
	{"pasta", Pantry},
	{"spaghetti", Pantry},
	{"penne", Pantry},
	{"linguine", Pantry},
	{"fettuccine", Pantry},
	{"macaroni", Pantry},
	{"noodles", Pantry},
	{"rice noodles", Pantry},
	{"ramen", Pantry},
	{"lentils", Pantry},
	{"chickpeas", Pantry},
	{"black bean", Pantry},
	{"kidney bean", Pantry},
	{"cannellini bean", Pantry},
	{"pinto bean", Pantry},
	{"refried bean", Pantry},
	{"peanut butter", Pantry},
	{"almond butter", Pantry},
	{"tahini", Pantry},
	{"mustard", Pantry},
	{"dijon mustard", Pantry},
	{"ketchup", Pantry},
	{"mayo", Pantry},
	{"mayonnaise", Pantry},
	{"bread crumb", Pantry},
	{"panko", Pantry},
	{"olives", Pantry},
	{"caper", Pantry},
	{"pesto", Pantry},
	{"curry paste", Pantry},
	{"miso", Pantry},
	{"gochujang", Pantry},
	{"harissa", Pantry},
	{"hummus", Pantry},
	{"peanut", Pantry},
	{"almond", Pantry},
	{"walnut", Pantry},
	{"cashew", Pantry},
	{"pine nut", Pantry},
	{"raisin", Pantry},
	{"tortilla chip", Pantry},
	{"white wine", Pantry},
	{"red wine", Pantry},
	{"cooking wine", Pantry},
	{"mirin", Pantry},

	// Spices and seasonings
	{"salt", Spices},
	{"kosher salt", Spices},
	{"sea salt", Spices},
	{"garlic salt", Spices},
	{"pepper", Spices},
	{"black pepper", Spices},
	{"white pepper", Spices},
	{"cayenne pepper", Spices},
	{"cumin", Spices},
	{"ground cumin", Spices},
	{"paprika", Spices},
	{"smoked paprika", Spices},
	{"chili powder", Spices},
	{"garlic powder", Spices},
	{"onion powder", Spices},
	{"curry powder", Spices},
	{"oregano", Spices},
	{"dried oregano", Spices},
	{"thyme", Spices},
	{"rosemary", Spices},
	{"sage", Spices},
	{"bay leaf", Spices},
	{"cinnamon", Spices},
	{"nutmeg", Spices},
	{"cloves", Spices},
	{"allspice", Spices},
	{"cardamom", Spices},
	{"turmeric", Spices},
	{"coriander", Spices},
	{"fennel seed", Spices},
	{"mustard seed", Spices},
	{"sesame seed", Spices},
	{"red pepper flake", Spices},
	{"chili flake", Spices},
	{"garam masala", Spices},
	{"italian seasoning", Spices},
	{"taco seasoning", Spices},
	{"cajun seasoning", Spices},
	{"five spice", Spices},
	{"za'atar", Spices},
	{"sumac", Spices},
	{"saffron", Spices},
	{"vanilla", Spices},
	{"vanilla extract", Spices},
}
