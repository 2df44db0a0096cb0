package catalog

// CardioCategory is the only category logged with steps instead of sets and reps.
const CardioCategory = "Cardio"

var exercisesByCategory = map[string][]string{
	"Legs":      {"Barbell Squats", "Leg Press", "Lunges", "Calf Raises", "Leg Extensions", "Romanian Deadlift"},
	"Chest":     {"Bench Press", "Incline Dumbbell Press", "Cable Flys", "Push-ups", "Dips", "Chest Press"},
	"Back":      {"Deadlift", "Pull-Ups", "Lat Pulldown", "Barbell Rows", "Face Pulls", "Seated Cable Row"},
	"Arms":      {"Bicep Curls", "Tricep Extensions", "Hammer Curls", "Skull Crushers", "Preacher Curls"},
	"Abs":       {"Crunches", "Plank", "Leg Raises", "Russian Twists", "Bicycle Crunches"},
	"Shoulders": {"Overhead Press", "Lateral Raises", "Front Raises", "Shrugs", "Rear Delt Fly"},
	CardioCategory: {
		"Treadmill Run", "Outdoor Run", "Cycling", "Elliptical",
		"Jump Rope", "Rowing", "Swimming", "Stair Climber",
	},
}
