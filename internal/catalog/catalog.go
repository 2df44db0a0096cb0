package catalog

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const (
	searchCacheSize = 1024 * 1024
	// cached search results never expire; the tables are immutable
	searchCacheExpire = 0
)

var ErrFoodNotFound = errors.New("food not found")

// Catalog is the static exercise taxonomy and food composition table.
// It is immutable after New and safe for concurrent use.
type Catalog struct {
	exercises  map[string][]string
	categories []string
	foods      map[string]Macros
	foodNames  []string
	cache      *freecache.Cache
}

func New() *Catalog {
	c := &Catalog{
		exercises: make(map[string][]string, len(exercisesByCategory)),
		foods:     make(map[string]Macros, len(foods)),
		cache:     freecache.NewCache(searchCacheSize),
	}

	for category, names := range exercisesByCategory {
		c.exercises[category] = append([]string(nil), names...)
		c.categories = append(c.categories, category)
	}
	sort.Strings(c.categories)

	for name, macros := range foods {
		c.foods[name] = macros
		c.foodNames = append(c.foodNames, name)
	}
	sort.Strings(c.foodNames)

	log.Debugf("catalog loaded: %d categories, %d foods", len(c.categories), len(c.foodNames))
	return c
}

// Categories returns the exercise categories, sorted.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// Exercises lists the exercises of a category. An unknown category yields a single
// "Standard <category>" exercise.
func (c *Catalog) Exercises(category string) []string {
	names, ok := c.exercises[category]
	if !ok {
		return []string{"Standard " + category}
	}
	return append([]string(nil), names...)
}

func (c *Catalog) IsCardio(category string) bool {
	return category == CardioCategory
}

// GymExercises lists every non cardio exercise, grouped by sorted category.
func (c *Catalog) GymExercises() []string {
	var all []string
	for _, category := range c.categories {
		if c.IsCardio(category) {
			continue
		}
		all = append(all, c.exercises[category]...)
	}
	return all
}

func (c *Catalog) CardioExercises() []string {
	return c.Exercises(CardioCategory)
}

func (c *Catalog) Food(name string) (Macros, error) {
	macros, ok := c.foods[name]
	if !ok {
		return Macros{}, ErrFoodNotFound
	}
	return macros, nil
}

// FoodNames returns all food names, sorted.
func (c *Catalog) FoodNames() []string {
	return append([]string(nil), c.foodNames...)
}

// Search returns the sorted food names containing query, ignoring case.
// An empty query matches every food.
func (c *Catalog) Search(query string) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	cacheKey := []byte("search::" + query)

	if cached, err := c.cache.Get(cacheKey); err == nil {
		var names []string
		if err := json.Unmarshal(cached, &names); err == nil {
			return names
		} else {
			log.Errorf("unmarshal cached food search [%s]: %s", query, err)
		}
	}

	names := make([]string, 0)
	for _, name := range c.foodNames {
		if strings.Contains(strings.ToLower(name), query) {
			names = append(names, name)
		}
	}

	if namesBytes, err := json.Marshal(names); err == nil {
		if err := c.cache.Set(cacheKey, namesBytes, searchCacheExpire); err != nil {
			log.Errorf("cache food search [%s]: %s", query, err)
		}
	}

	return names
}

// Portion scales the per 100 g macros of a food to the given amount in grams.
func (c *Catalog) Portion(name string, grams float64) (Macros, error) {
	per100, err := c.Food(name)
	if err != nil {
		return Macros{}, err
	}
	factor := grams / 100
	return Macros{
		Protein:  per100.Protein * factor,
		Carbs:    per100.Carbs * factor,
		Fat:      per100.Fat * factor,
		Calories: per100.Calories * factor,
	}, nil
}
