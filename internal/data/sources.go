// Package data provides static data definitions for the application.
// These data are maintained manually and updated when the university site changes.
package data

// Page is one university web page scraped into the knowledge corpus.
type Page struct {
	Category string
	URL      string
}

// CategoryPages groups the scraped pages of one corpus category.
type CategoryPages struct {
	Category string
	URLs     []string
}

// Corpus categories. These are the category values stored on knowledge entries.
const (
	CategoryAdmissions = "Admissions"
	CategoryAcademics  = "Academics"
	CategoryPlacements = "Placements"
	CategoryFacilities = "Facilities"
)

// SitePages lists every page of the corpus, in scrape order.
var SitePages = []CategoryPages{
	{
		Category: CategoryAdmissions,
		URLs: []string{
			"https://anurag.edu.in/admissions-policy/",
			"https://anurag.edu.in/scholarships/",
			"https://anurag.edu.in/undergraduate-admissions/",
			"https://anurag.edu.in/postgraduate-admissions/",
			"https://anurag.edu.in/ph-d-admissions/",
			"https://anurag.edu.in/important-dates/",
			"https://anurag.edu.in/tuition-fee/",
			"https://anurag.edu.in/entrance-tests/",
			"https://anurag.edu.in/counselling/",
			"https://anurag.edu.in/contacts/",
		},
	},
	{
		Category: CategoryAcademics,
		URLs: []string{
			"https://www.anurag.edu.in/anurag/school-of-engineering/",
			"https://www.anurag.edu.in/anurag/school-of-agriculture/",
			"https://anurag.edu.in/departments/school-of-management/",
			"https://anurag.edu.in/departments/school-of-pharmacy/",
			"https://www.anurag.edu.in/anurag/ug/",
			"https://www.anurag.edu.in/anurag/pg/",
			"https://www.anurag.edu.in/anurag/ph-d/",
			"https://www.anurag.edu.in/anurag/academic-calendar/",
			"https://www.anurag.edu.in/anurag/library/",
		},
	},
	{
		Category: CategoryPlacements,
		URLs: []string{
			"https://anurag.edu.in/placements/",
			"https://anurag.edu.in/placements-overview/",
			"https://anurag.edu.in/liaison-with-industry/",
			"https://anurag.edu.in/recruitment/",
			"https://anurag.edu.in/students-placement-testimonials/",
		},
	},
	{
		Category: CategoryFacilities,
		URLs: []string{
			"https://anurag.edu.in/hostels-and-accomodation/",
			"https://anurag.edu.in/transportation/",
			"https://anurag.edu.in/medical-center/",
			"https://anurag.edu.in/other-facilities/",
			"https://anurag.edu.in/sports-and-fitness/",
		},
	},
}

// AllPages flattens SitePages into scrape order.
func AllPages() []Page {
	var pages []Page
	for _, group := range SitePages {
		for _, u := range group.URLs {
			pages = append(pages, Page{Category: group.Category, URL: u})
		}
	}
	return pages
}
