package store

import (
	"time"

	"github.com/tartampluch/go-celebrations/internal/engine"
)

// SampleEmployees is the built-in demo roster served when the real store is
// unavailable or empty. Dates use the long en-US layout the demo data was
// authored in.
func SampleEmployees() []engine.Employee {
	return []engine.Employee{
		{
			ID:         "1",
			Name:       "Priya Raman",
			Birthday:   "Friday, September 02, 1994",
			JoinDate:   "Monday, May 08, 2017",
			Department: "Engineering",
			Position:   "Senior Software Developer",
			Email:      "priya@company.example",
			Phone:      "+91 98765 43210",
			Location:   "Chennai, India",
			CreatedAt:  time.Date(2017, 5, 8, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "2",
			Name:       "Arun Kumar",
			Birthday:   "Sunday, December 07, 1980",
			JoinDate:   "Thursday, October 10, 2019",
			Department: "Management",
			Position:   "Team Manager",
			Email:      "arun@company.example",
			Phone:      "+91 98765 43211",
			Location:   "Chennai, India",
			CreatedAt:  time.Date(2019, 10, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:         "3",
			Name:       "Meera Iyer",
			Birthday:   "Friday, May 10, 1996",
			JoinDate:   "Tuesday, December 01, 2020",
			Department: "Engineering",
			Position:   "Software Developer",
			Email:      "meera@company.example",
			Phone:      "+91 98765 43212",
			Location:   "Chennai, India",
			CreatedAt:  time.Date(2020, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
