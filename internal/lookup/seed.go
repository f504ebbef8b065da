// ABOUTME: Static reference data seeded into the food and exercise tables.
// ABOUTME: Food rates are kcal per gram; exercise rates are kcal per minute.
package lookup

// FoodSeed lists calories per gram for common foods.
var FoodSeed = []Entry{
	{"apple", 0.37},
	{"banana", 0.51},
	{"orange", 0.39},
	{"rice_brown", 1.32}, // cooked
	{"chicken_breast", 1.48},
	{"broccoli", 0.35},
	{"carrot", 0.10},
	{"cheddar_cheese", 4.03},
	{"salmon_raw", 1.83},
	{"egg_whole", 1.55},
	{"almonds", 5.75},
	{"pasta_cooked", 1.58},
	{"spinach", 0.23},
	{"avocado", 1.34},
	{"tofu", 0.76},
	{"potato", 0.97},
	{"beef_steak", 2.52},
	{"whole_milk", 0.62},
	{"oats", 3.81},
	{"peanut_butter", 5.94},
	{"quinoa", 1.11},
	{"lentils", 1.16},
	{"chickpeas", 1.64},
	{"turkey_breast", 1.04},
	{"salmon", 2.08},
	{"sweet_potato", 0.86},
	{"blueberries", 0.57},
	{"almond_milk", 0.17},
	{"blackberries", 0.21},
	{"cucumber", 0.15},
	{"tomato", 0.18},
	{"mushroom", 0.08},
	{"cauliflower", 0.30},
	{"green_peas", 0.70},
	{"pumpkin", 0.13},
	{"strawberries", 0.32},
	{"walnuts", 6.54},
	{"cod", 0.82},
	{"shrimp", 0.99},
	{"beef", 2.50},
	{"pork", 2.42},
	{"olive_oil", 8.80},
	{"bread_whole_grain", 2.66},
	{"yogurt_plain", 0.59},
	{"lamb", 2.94},
	{"honey", 3.04},
}

// ExerciseSeed lists calories burned per minute, derived from hourly figures.
var ExerciseSeed = []Entry{
	{"running", 606.0 / 60},
	{"cycling", 292.0 / 60},
	{"swimming", 423.0 / 60},
	{"yoga", 183.0 / 60}, // moderate effort
	{"weightlifting", 108.0 / 60},
	{"aerobics_low_impact", 365.0 / 60},
	{"aerobics_water", 402.0 / 60},
	{"dancing_ballroom", 219.0 / 60},
	{"elliptical_trainer", 365.0 / 60},
	{"golfing", 314.0 / 60},
	{"hiking", 438.0 / 60},
	{"skiing_downhill", 314.0 / 60},
	{"walking", 314.0 / 60}, // 3.5 mph
	{"jogging", 450.0 / 60},
	{"tennis", 480.0 / 60},
	{"basketball", 584.0 / 60},
	{"soccer", 504.0 / 60},
	{"zumba", 350.0 / 60},
	{"crossfit", 500.0 / 60},
	{"rock_climbing", 550.0 / 60},
}
