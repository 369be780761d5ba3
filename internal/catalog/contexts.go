// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package catalog

// ContextDefinition is a named shopping intent and its lowercase keyword triggers.
type ContextDefinition struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Triggers []string `json:"triggers"`
}

// Declaration order is significant: scorers break ties by it.
var contextDefinitions = []ContextDefinition{
	{ID: "party", Title: "Party Mode", Triggers: []string{"coca", "coke", "pepsi", "thums", "chips", "lays", "pringles", "bingo", "kurkure", "cornitos", "nacho", "bhujia", "namkeen", "ferrero", "celebrations", "chocolate", "red bull", "bira", "beer", "ginger ale", "sparkling"}},
	{ID: "breakfast", Title: "Breakfast Prep", Triggers: []string{"bread", "egg", "milk", "butter", "jam", "coffee", "nescafe", "tea", "tata tea", "corn flakes", "kellogg", "oats", "quaker", "muesli", "idli", "dosa", "batter", "parle-g", "rusk"}},
	{ID: "biryani", Title: "Biryani Night", Triggers: []string{"basmati", "rice", "daawat", "curd", "yogurt", "biryani", "masala", "everest", "chicken", "licious", "paneer", "ginger garlic", "onion", "mint", "coriander", "saffron", "cardamom", "cinnamon"}},
	{ID: "sick", Title: "Sick Day", Triggers: []string{"vicks", "dettol", "paracetamol", "soup", "knorr", "electoral", "ors", "tulsi", "honey", "dabur", "eucalyptus", "tissue", "juice", "activ"}},
	{ID: "movie", Title: "Movie Marathon", Triggers: []string{"popcorn", "act ii", "pringles", "chips", "snickers", "cadbury", "chocolate", "m&m", "kinder", "ice cream", "cornetto", "coke", "pepsi", "thums"}},
	{ID: "chai", Title: "Chai Time", Triggers: []string{"tea", "tata", "taj mahal", "society", "wagh bakri", "chai", "ginger", "green tea", "girnar", "parle", "britannia", "biscuit", "cookie", "good day", "hide seek", "marie", "digestive", "rusk"}},
	{ID: "pancake", Title: "Pancake Sunday", Triggers: []string{"pancake", "betty crocker", "pillsbury", "maple", "syrup", "wingreens", "nutella", "hershey", "strawberry", "blueberry", "cream", "honey"}},
	{ID: "italian", Title: "Italian Dinner", Triggers: []string{"pasta", "barilla", "del monte", "spaghetti", "olive oil", "borges", "oregano", "basil", "cheese", "mozzarella", "pizza", "sauce", "oetker", "chili flakes"}},
	{ID: "baking", Title: "Baking Spree", Triggers: []string{"maida", "flour", "aashirvaad", "sugar", "baking powder", "weikfield", "cocoa", "blue bird", "vanilla", "essence", "condensed milk", "eagle", "brownie", "choco chips"}},
	{ID: "salad", Title: "Salad Cleanse", Triggers: []string{"lettuce", "cucumber", "tomato", "bell pepper", "spinach", "olive oil", "vinegar", "mayo", "yogurt", "epigamia", "honey", "quinoa"}},
	{ID: "gym", Title: "Gym Rat", Triggers: []string{"protein", "whey", "muscleblaze", "protinex", "oats", "peanut butter", "yoga bar", "pintola", "banana", "kiwi", "almond", "granola", "bar", "fast&up"}},
	{ID: "lunch", Title: "Office Lunch", Triggers: []string{"sandwich", "bread", "cheese", "juice", "yogurt", "buttermilk", "paratha", "dal", "tata sampann", "biscuit", "namkeen"}},
	{ID: "latenight", Title: "Late Night", Triggers: []string{"maggi", "noodles", "yippee", "ching", "chips", "lays", "chocolate", "cadbury", "5 star", "coke", "ice cream", "jim jam"}},
	{ID: "cleaning", Title: "Cleaning Day", Triggers: []string{"lizol", "harpic", "colin", "vim", "dishwash", "scrub", "scotch", "dettol", "domex", "cleaner", "odonil", "hit", "surf", "ariel", "detergent", "comfort"}},
	{ID: "pet", Title: "Pet Pampering", Triggers: []string{"pedigree", "whiskas", "dog", "cat", "food", "drools", "himalaya", "shampoo", "pet", "treat", "toy", "kong"}},
	{ID: "puja", Title: "Puja Essentials", Triggers: []string{"agarbatti", "incense", "camphor", "kapur", "gangajal", "lamp", "wick", "moli", "sandalwood", "matchbox", "marigold", "ghee"}},
	{ID: "hair", Title: "Hair Care", Triggers: []string{"shampoo", "loreal", "tresemme", "conditioner", "hair oil", "parachute", "indulekha", "serum", "livon", "head shoulders", "dove", "mamaearth", "pantene", "hair gel", "wax"}},
	{ID: "laundry", Title: "Laundry Day", Triggers: []string{"surf", "ariel", "detergent", "tide", "rin", "comfort", "fabric", "vanish", "stain", "ezee", "ujala", "clips", "sanitizer"}},
	{ID: "sandwich", Title: "Sandwich Station", Triggers: []string{"bread", "cheese", "salami", "zorabian", "mayo", "veeba", "ketchup", "kissan", "lettuce", "olive", "jalapeno", "cucumber"}},
	{ID: "bbq", Title: "BBQ/Grill", Triggers: []string{"chicken", "salami", "tikka", "sausage", "paneer", "barbeque", "tandoori", "mushroom", "pepper", "paprika", "onion", "capsicum"}},
	{ID: "taco", Title: "Taco Tuesday", Triggers: []string{"taco", "tortilla", "salsa", "jalapeno", "beans", "cheese", "mexican", "avocado", "sour cream", "coriander", "lemon"}},
	{ID: "curry", Title: "Indian Curry", Triggers: []string{"masala", "turmeric", "chilli", "mdh", "everest", "garam", "jeera", "cumin", "dal", "toor", "moong", "atta", "rice", "oil", "tomato", "garlic", "ginger", "pickle"}},
	{ID: "smoothie", Title: "Smoothie Station", Triggers: []string{"yogurt", "epigamia", "oats", "chia", "peanut butter", "honey", "blueberry", "strawberry", "banana", "almond milk", "coconut water"}},
	{ID: "baby", Title: "Baby Care", Triggers: []string{"pampers", "huggies", "diaper", "wipes", "johnson", "cerelac", "baby", "lotion", "powder", "oil", "himalaya", "mamaearth"}},
	{ID: "hygiene", Title: "Hygiene Check", Triggers: []string{"dettol", "savlon", "sanitizer", "soap", "lifebuoy", "pears", "toothpaste", "colgate", "mouthwash", "listerine", "sanitary", "whisper", "stayfree", "razor", "gillette", "tissue"}},
}

// Contexts returns the built-in context definitions in declaration order.
// The returned slice and its trigger slices are copies.
func Contexts() []ContextDefinition {
	out := make([]ContextDefinition, len(contextDefinitions))
	for i, def := range contextDefinitions {
		triggers := make([]string, len(def.Triggers))
		copy(triggers, def.Triggers)
		out[i] = ContextDefinition{ID: def.ID, Title: def.Title, Triggers: triggers}
	}
	return out
}

// ContextByID looks up a built-in context definition.
func ContextByID(id string) (ContextDefinition, bool) {
	for _, def := range contextDefinitions {
		if def.ID == id {
			triggers := make([]string, len(def.Triggers))
			copy(triggers, def.Triggers)
			return ContextDefinition{ID: def.ID, Title: def.Title, Triggers: triggers}, true
		}
	}
	return ContextDefinition{}, false
}
