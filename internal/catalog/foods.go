package catalog

// Macros are nutrition values for a portion; the food table holds them per 100 g.
type Macros struct {
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Calories float64 `json:"calories"`
}

var foods = map[string]Macros{
	// proteins & dairy
	"Chicken Breast (Raw)":    {23, 0, 1.2, 110},
	"Chicken Breast (Cooked)": {31, 0, 3.6, 165},
	"Chicken Thigh":           {16, 0, 15, 209},
	"Egg (Whole, Large)":      {13, 1.1, 11, 155},
	"Egg White":               {11, 0.7, 0.2, 52},
	"Salmon":                  {20, 0, 13, 208},
	"Tuna (Canned in Water)":  {25, 0, 1, 116},
	"Beef (Ground, 85%)":      {26, 0, 15, 250},
	"Steak (Sirloin)":         {27, 0, 10, 244},
	"Pork Chop":               {24, 0, 14, 231},
	"Turkey Breast":           {29, 0, 1, 135},
	"Shrimp":                  {24, 0.2, 0.3, 99},
	"Tofu (Firm)":             {8, 2, 4, 76},
	"Paneer":                  {18, 1.2, 20, 265},
	"Soya Chunks":             {52, 33, 0.5, 345},
	"Whey Protein Powder":     {80, 5, 2, 380},
	"Greek Yogurt (Plain)":    {10, 3.6, 0.4, 59},
	"Cottage Cheese":          {11, 3.4, 4.3, 98},
	"Milk (Whole)":            {3.2, 4.8, 3.3, 61},
	"Milk (Skimmed)":          {3.4, 5, 0.1, 35},
	"Lentils (Cooked)":        {9, 20, 0.4, 116},
	"Chickpeas (Cooked)":      {7, 27, 2.6, 164},
	"Black Beans":             {8.9, 23, 0.5, 132},
	"Kidney Beans":            {8.7, 22, 0.5, 127},

	// grains & starches
	"White Rice (Cooked)":         {2.7, 28, 0.3, 130},
	"Brown Rice (Cooked)":         {2.6, 23, 0.9, 111},
	"Oats (Raw)":                  {13, 68, 6.5, 389},
	"Quinoa (Cooked)":             {4.4, 21, 1.9, 120},
	"Potato (Boiled)":             {2, 17, 0.1, 77},
	"Sweet Potato (Boiled)":       {1.6, 20, 0.1, 86},
	"Pasta (White, Cooked)":       {5, 25, 1.1, 131},
	"Whole Wheat Bread (1 slice)": {4, 12, 1, 80},
	"White Bread (1 slice)":       {2.7, 13, 0.8, 75},
	"Chapati / Roti":              {3, 15, 0.5, 85},

	// fruits
	"Apple":        {0.3, 14, 0.2, 52},
	"Banana":       {1.1, 23, 0.3, 89},
	"Orange":       {0.9, 12, 0.1, 47},
	"Grapes":       {0.6, 17, 0.2, 67},
	"Blueberries":  {0.7, 14, 0.3, 57},
	"Strawberries": {0.7, 8, 0.3, 32},
	"Watermelon":   {0.6, 8, 0.2, 30},
	"Pineapple":    {0.5, 13, 0.1, 50},
	"Mango":        {0.8, 15, 0.4, 60},
	"Avocado":      {2, 9, 15, 160},

	// vegetables
	"Broccoli":    {2.8, 7, 0.4, 34},
	"Spinach":     {2.9, 3.6, 0.4, 23},
	"Carrot":      {0.9, 10, 0.2, 41},
	"Cucumber":    {0.7, 3.6, 0.1, 15},
	"Tomato":      {0.9, 3.9, 0.2, 18},
	"Bell Pepper": {1, 6, 0.3, 31},
	"Onion":       {1.1, 9, 0.1, 40},
	"Green Peas":  {5, 14, 0.4, 81},
	"Corn":        {3.2, 19, 1.2, 86},
	"Mushroom":    {3.1, 3.3, 0.3, 22},

	// nuts & seeds
	"Almonds":       {21, 22, 49, 575},
	"Walnuts":       {15, 14, 65, 654},
	"Peanuts":       {26, 16, 49, 567},
	"Cashews":       {18, 30, 44, 553},
	"Peanut Butter": {25, 20, 50, 588},
	"Chia Seeds":    {17, 42, 31, 486},
	"Flax Seeds":    {18, 29, 42, 534},
	"Pumpkin Seeds": {19, 54, 19, 446},

	// snacks, drinks & fats
	"Pizza (Slice)":         {11, 30, 10, 266},
	"Burger (Cheeseburger)": {15, 30, 14, 300},
	"French Fries":          {3.4, 41, 15, 312},
	"Coke / Soda (330ml)":   {0, 35, 0, 139},
	"Chocolate (Milk)":      {7.3, 59, 30, 535},
	"Chocolate (Dark 70%)":  {8, 46, 43, 600},
	"Ice Cream (Vanilla)":   {3.5, 24, 11, 207},
	"Cookie (Choc Chip)":    {5, 60, 24, 480},
	"Popcorn (Plain)":       {11, 74, 4, 370},
	"Olive Oil":             {0, 0, 100, 884},
	"Butter":                {0.9, 0.1, 81, 717},
	"Mayonnaise":            {1, 1, 75, 680},
	"Honey":                 {0.3, 82, 0, 304},
	"Sugar":                 {0, 100, 0, 387},
}
