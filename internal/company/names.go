// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package company

// DepartmentNames is the fixed ordered list departments are drawn from. The
// first entry is always the root.
var DepartmentNames = []string{
	"Executive",
	"Marketing",
	"Product",
	"Engineering",
	"Design",
	"Sales",
	"Finance",
	"HR",
	"Support",
	"Operations",
	"Legal",
	"IT",
	"Research",
	"Customer Success",
	"Procurement",
}

// headRoles overrides the "Director" title for department heads.
var headRoles = map[string]string{
	"Executive": "Chief Executive Officer",
}

// memberRoles maps a department to the roles its staff draw from.
var memberRoles = map[string][]string{
	"Executive":        {"Chief Operating Officer", "Chief Financial Officer", "Chief Technology Officer", "Chief of Staff", "Executive Assistant"},
	"Marketing":        {"Marketing Manager", "Content Strategist", "Brand Manager", "SEO Specialist", "Marketing Coordinator"},
	"Product":          {"Product Manager", "Senior Product Manager", "Product Analyst", "Product Owner"},
	"Engineering":      {"Software Engineer", "Senior Software Engineer", "Engineering Manager", "QA Engineer", "DevOps Engineer"},
	"Design":           {"UX Designer", "UI Designer", "Design Lead", "UX Researcher"},
	"Sales":            {"Account Executive", "Sales Manager", "Sales Development Rep", "Solutions Consultant"},
	"Finance":          {"Financial Analyst", "Controller", "Accountant", "FP&A Manager"},
	"HR":               {"HR Business Partner", "Recruiter", "People Operations Manager", "HR Coordinator"},
	"Support":          {"Support Specialist", "Support Team Lead", "Technical Support Engineer"},
	"Operations":       {"Operations Manager", "Operations Analyst", "Program Manager"},
	"Legal":            {"Corporate Counsel", "Paralegal", "Compliance Manager"},
	"IT":               {"Systems Administrator", "IT Support Technician", "Security Engineer"},
	"Research":         {"Research Scientist", "Data Scientist", "Research Analyst"},
	"Customer Success": {"Customer Success Manager", "Onboarding Specialist", "Account Manager"},
	"Procurement":      {"Procurement Specialist", "Vendor Manager", "Buyer"},
}

// genericRoles backs departments missing from memberRoles.
var genericRoles = []string{"Manager", "Specialist", "Analyst", "Coordinator"}

// FirstNames and LastNames feed person and narrative name generation.
var FirstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen", "Daniel", "Nancy", "Matthew", "Lisa",
	"Anthony", "Betty", "Mark", "Sandra", "Priya", "Wei", "Carlos", "Aisha",
	"Kenji", "Fatima", "Mateo", "Olga", "Liam", "Chloe", "Noah", "Zara",
}

var LastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas",
	"Taylor", "Moore", "Jackson", "Martin", "Lee", "Perez", "Thompson", "White",
	"Harris", "Clark", "Lewis", "Robinson", "Walker", "Young", "Patel", "Nguyen",
	"Kim", "Okafor", "Schmidt", "Rossi", "Kowalski", "Silva", "Tanaka", "Ivanova",
}

var companyPrefixes = []string{
	"Apex", "Bluefin", "Cobalt", "Horizon", "Ironwood", "Lumen", "Meridian", "Northstar",
	"Pinnacle", "Quantum", "Redwood", "Summit", "Vertex", "Willow", "Zenith",
}

var companySuffixes = []string{
	"Dynamics", "Labs", "Systems", "Solutions", "Technologies", "Holdings", "Group", "Partners",
}
