// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package catalog

// ContextCopy is the nudge copy and product retrieval keywords owned by one context.
type ContextCopy struct {
	Lines    []string `json:"lines"`
	Keywords []string `json:"keywords"`
}

var contextCopy = map[string]ContextCopy{
	"party": {
		Lines: []string{
			"Party starter pack! Don't forget the ice and mixers.",
			"Chill vibes loading... Add some crunchy snacks to the mix?",
			"This combo screams fun night! Maybe grab some extra tissues?",
			"Hosting duties calling? You might need these last-minute saves.",
		},
		Keywords: []string{"ice", "soda", "chip", "dip", "nacho", "thums", "sprite", "coke", "cup", "tissue"},
	},
	"breakfast": {
		Lines: []string{
			"Classic desi breakfast! How about some fresh juice to complete it?",
			"Morning sorted. Need some biscuits for that chai?",
			"Breakfast of champions loading... Don't let the toast burn!",
			"Rise and shine (and dine). Don't forget the butter!",
		},
		Keywords: []string{"bread", "butter", "jam", "egg", "coffee", "milk", "tea", "juice", "corn", "flake"},
	},
	"biryani": {
		Lines: []string{
			"It's not a Biryani feast without extra Raita and Coke!",
			"Spice levels critical! Add some sweets to cool down.",
			"The royal treatment requires these add-ons. Salan ready?",
			"Biryani night? Mandatory Thums Up check.",
		},
		Keywords: []string{"curd", "raita", "thums", "coke", "onion", "lemon", "spice", "rice"},
	},
	"sick": {
		Lines: []string{
			"Get well soon! We've got soups and juices to help you recover.",
			"Rest mode activated. Grab some tissues and balm for comfort.",
			"Healing essentials. Don't miss out on hydration.",
			"Sending virtual hugs (and these essential supplies)...",
		},
		Keywords: []string{"soup", "juice", "water", "tea", "honey", "fruit", "tissue", "balm", "rub", "vicks"},
	},
	"movie": {
		Lines: []string{
			"Movie marathon pending? Don't hit pause on the snacks.",
			"The cinema experience, now at home. Popcorn ready?",
			"Crunch time! Literally. Don't forget the cold drinks.",
			"Binge-watching essentials detected. Add these for the finale.",
		},
		Keywords: []string{"popcorn", "coke", "pepsi", "chip", "nacho", "chocolate", "candy", "ice cream"},
	},
	"chai": {
		Lines: []string{
			"Chai break approved. Dipping mechanics require these biscuits.",
			"The perfect evening requires a sip and a bite. Rusk anyone?",
			"Brewing happiness? Add these to your tea time.",
			"Chai pe charcha needs some snacks on the side.",
		},
		Keywords: []string{"biscuit", "rusk", "cookie", "milk", "sugar", "ginger", "cardamom"},
	},
	"pancake": {
		Lines: []string{
			"Flipping fantastic! Do you have the syrup and honey?",
			"Sunday morning ritual identified. Make it a stack to remember.",
			"Sweet tooth alert! Don't forget the whipped cream.",
			"Breakfast or Dessert? Why not both with these add-ons.",
		},
		Keywords: []string{"honey", "syrup", "fruit", "chocolate", "butter", "cream", "berry"},
	},
	"italian": {
		Lines: []string{
			"Mamma Mia! You forgot the cheese and oregano.",
			"Pasta night isn't complete without garlic bread and coke.",
			"Bon Appétit! Add these for the full authentic taste.",
			"Cheesy goodness loading. Don't forget the seasoning.",
		},
		Keywords: []string{"cheese", "sauce", "oregano", "flake", "oil", "olive", "coke", "garlic"},
	},
	"baking": {
		Lines: []string{
			"Whisking up a storm? Check your pantry for vanilla essence.",
			"Baking therapy in progress. Sweet treats require precise ingredients.",
			"The secret ingredient might be here. Choco chips maybe?",
			"Chef mode activated! Grab these for pro results.",
		},
		Keywords: []string{"sugar", "butter", "chocolate", "cocoa", "vanilla", "milk", "cream"},
	},
	"salad": {
		Lines: []string{
			"Clean eating streak? Keep it going with these toppers.",
			"The salad bowl looks lonely. Add some crunch!",
			"Wellness check! Don't forget the dressing and seasoning.",
			"Healthy living goals! Add these to the mix.",
		},
		Keywords: []string{"oil", "lemon", "pepper", "salt", "yogurt", "cheese", "paneer"},
	},
	"gym": {
		Lines: []string{
			"Gains incoming. Fuel up with protein and oats.",
			"Post-workout recovery starts here. Hydration check?",
			"Fitness beast! Don't skip the healthy snacks.",
			"Protein mode: ON. Stack up on these essentials.",
		},
		Keywords: []string{"egg", "chicken", "banana", "oats", "peanut", "water", "milk"},
	},
	"lunch": {
		Lines: []string{
			"Office lunch upgrade available. Don't settle for boring food.",
			"Mid-day hunger pangs? Solved with these quick bites.",
			"Power through the afternoon with some yogurt or juice.",
			"Quick, easy, and delicious. Lunch sorted.",
		},
		Keywords: []string{"juice", "yogurt", "fruit", "snack", "chocolate", "drink"},
	},
	"latenight": {
		Lines: []string{
			"Midnight hunger? Try adding some chocolates or chips.",
			"The 2 AM survival guide: Noodles and caffeine.",
			"Late night munchies detected! How about a cold drink?",
			"Don't let the hunger win. Stock up for the night.",
		},
		Keywords: []string{"maggie", "noodle", "coffee", "red bull", "chip", "chocolate", "coke"},
	},
	"cleaning": {
		Lines: []string{
			"Sparkle and shine time. Don't forget the gloves.",
			"Deep cleaning made easier. Fight the grime with these.",
			"Home refresh in progress. Add some fragrance?",
			"Cleaning spree? You might need these extra supplies.",
		},
		Keywords: []string{"cloth", "sponge", "bag", "bucket", "glove", "brush"},
	},
	"pet": {
		Lines: []string{
			"Treats for the good boy/girl. Tail wags guaranteed.",
			"Purr-fect additions to your cart. Don't forget the toys.",
			"Pet pampering session? Grab these essentials.",
			"For your furry friend. They deserve a treat too!",
		},
		Keywords: []string{"treat", "toy", "biscuit", "milk", "chicken"},
	},
	"puja": {
		Lines: []string{
			"For a divine atmosphere. Agarbatti and flowers check?",
			"Blessings and essentials. Complete your prayer thali.",
			"Festive vibes loading... Don't forget the camphor.",
			"Puja preparation made easy. Add these to your list.",
		},
		Keywords: []string{"oil", "match", "flower", "fruit", "sweet", "milk", "ghee"},
	},
	"hair": {
		Lines: []string{
			"Good hair day pending... Don't forget the serum.",
			"Self-care Sunday essentials. Lather, rinse, repeat.",
			"For that salon finish. Conditioner check?",
			"Hair care routine sorted. Add these for extra shine.",
		},
		Keywords: []string{"comb", "oil", "shampoo", "conditioner", "color", "gel"},
	},
	"laundry": {
		Lines: []string{
			"Fresh clothes, fresh vibe. Stain remover needed?",
			"Laundry day made bearable. Don't forget fabric conditioner!",
			"Stain removal squad. Keep your whites white.",
			"Washing machine ready? Add these for the best wash.",
		},
		Keywords: []string{"brush", "clip", "bucket", "liquid", "powder"},
	},
	"sandwich": {
		Lines: []string{
			"The ultimate sandwich stack. Cheese and mayo check?",
			"Layers of flavor incoming. Don't forget the ketchup.",
			"Bread is just the beginning. Add veggies for crunch.",
			"Snack time hero. Make it a club sandwich?",
		},
		Keywords: []string{"sauce", "mayo", "cheese", "butter", "vegetable", "chicken"},
	},
	"bbq": {
		Lines: []string{
			"Grill master essentials. Marinade and spices check?",
			"Fire up the flavor. Don't forget the sides.",
			"Weekend BBQ sorted. Add some cold drinks.",
			"Smoky vibes loading. Sauce check?",
		},
		Keywords: []string{"sauce", "butter", "oil", "spice", "chicken", "paneer", "coke"},
	},
	"taco": {
		Lines: []string{
			"It's Taco time! Crunch, spice, and salsa check?",
			"Fiesta in a cart. Don't spill the beans (or cheese).",
			"Mexican night sorted. Add some nachos on the side?",
			"Taco Tuesday essentials. Sour cream missing?",
		},
		Keywords: []string{"sauce", "cheese", "vegetable", "chicken", "coke", "pepsi"},
	},
	"curry": {
		Lines: []string{
			"Simmering perfection needs this. Roti or Rice?",
			"Desi flavors unlocked. Don't forget the pickle.",
			"Spicing things up? Add some curd to cool down.",
			"Curry night essentials. Coriander for garnish?",
		},
		Keywords: []string{"rice", "atta", "oil", "ghee", "coriander", "chilli"},
	},
	"smoothie": {
		Lines: []string{
			"Blend it like a pro. Sip your vitamins.",
			"The refreshing hit you need. Honey and nuts check?",
			"Smooth operator essentials. Add some chia seeds?",
			"Breakfast in a glass. Don't forget the milk base.",
		},
		Keywords: []string{"milk", "honey", "fruit", "oats", "nut", "seed"},
	},
	"baby": {
		Lines: []string{
			"For the little one. Wipes and lotion check?",
			"Baby care basics. Gentle care for delicate skin.",
			"Parenting wins start here. Stock up on diapers.",
			"Softness guaranteed. Don't forget the baby oil.",
		},
		Keywords: []string{"wipes", "soap", "lotion", "powder", "oil", "cotton"},
	},
	"hygiene": {
		Lines: []string{
			"Stay fresh, stay safe. Handwash check?",
			"Daily essentials check. Toothpaste running low?",
			"Hygiene first! Don't forget the sanitizer.",
			"Personal care top-ups. Freshness loading...",
		},
		Keywords: []string{"tissue", "soap", "brush", "paste", "wash"},
	},
}

// CopyFor returns the copy owned by a context id.
func CopyFor(contextID string) (ContextCopy, bool) {
	c, ok := contextCopy[contextID]
	if !ok {
		return ContextCopy{}, false
	}
	lines := make([]string, len(c.Lines))
	copy(lines, c.Lines)
	keywords := make([]string, len(c.Keywords))
	copy(keywords, c.Keywords)
	return ContextCopy{Lines: lines, Keywords: keywords}, true
}
