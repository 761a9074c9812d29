package service

import "github.com/nkumar/cricket-auction/internal/domain"

// DefaultCatalog returns the built-in auctionable player pool. Base prices
// are in the same units as room budgets.
func DefaultCatalog() []*domain.CatalogPlayer {
	return []*domain.CatalogPlayer{
		{ID: "virat-kohli", Name: "Virat Kohli", Role: domain.RoleBatter, Nationality: "India", BasePrice: 200},
		{ID: "rohit-sharma", Name: "Rohit Sharma", Role: domain.RoleBatter, Nationality: "India", BasePrice: 200},
		{ID: "jasprit-bumrah", Name: "Jasprit Bumrah", Role: domain.RoleBowler, Nationality: "India", BasePrice: 200},
		{ID: "ravindra-jadeja", Name: "Ravindra Jadeja", Role: domain.RoleAllRounder, Nationality: "India", BasePrice: 175},
		{ID: "kl-rahul", Name: "KL Rahul", Role: domain.RoleWicketKeeper, Nationality: "India", BasePrice: 175},
		{ID: "hardik-pandya", Name: "Hardik Pandya", Role: domain.RoleAllRounder, Nationality: "India", BasePrice: 175},
		{ID: "rishabh-pant", Name: "Rishabh Pant", Role: domain.RoleWicketKeeper, Nationality: "India", BasePrice: 175},
		{ID: "mohammed-shami", Name: "Mohammed Shami", Role: domain.RoleBowler, Nationality: "India", BasePrice: 150},
		{ID: "shubman-gill", Name: "Shubman Gill", Role: domain.RoleBatter, Nationality: "India", BasePrice: 150},
		{ID: "yuzvendra-chahal", Name: "Yuzvendra Chahal", Role: domain.RoleBowler, Nationality: "India", BasePrice: 125},
		{ID: "suryakumar-yadav", Name: "Suryakumar Yadav", Role: domain.RoleBatter, Nationality: "India", BasePrice: 150},
		{ID: "ben-stokes", Name: "Ben Stokes", Role: domain.RoleAllRounder, Nationality: "England", BasePrice: 200},
		{ID: "jos-buttler", Name: "Jos Buttler", Role: domain.RoleWicketKeeper, Nationality: "England", BasePrice: 200},
		{ID: "joe-root", Name: "Joe Root", Role: domain.RoleBatter, Nationality: "England", BasePrice: 175},
		{ID: "jofra-archer", Name: "Jofra Archer", Role: domain.RoleBowler, Nationality: "England", BasePrice: 175},
		{ID: "harry-brook", Name: "Harry Brook", Role: domain.RoleBatter, Nationality: "England", BasePrice: 150},
		{ID: "pat-cummins", Name: "Pat Cummins", Role: domain.RoleBowler, Nationality: "Australia", BasePrice: 200},
		{ID: "steve-smith", Name: "Steve Smith", Role: domain.RoleBatter, Nationality: "Australia", BasePrice: 175},
		{ID: "david-warner", Name: "David Warner", Role: domain.RoleBatter, Nationality: "Australia", BasePrice: 175},
		{ID: "glenn-maxwell", Name: "Glenn Maxwell", Role: domain.RoleAllRounder, Nationality: "Australia", BasePrice: 175},
		{ID: "mitchell-starc", Name: "Mitchell Starc", Role: domain.RoleBowler, Nationality: "Australia", BasePrice: 200},
		{ID: "travis-head", Name: "Travis Head", Role: domain.RoleBatter, Nationality: "Australia", BasePrice: 150},
		{ID: "kane-williamson", Name: "Kane Williamson", Role: domain.RoleBatter, Nationality: "New Zealand", BasePrice: 175},
		{ID: "trent-boult", Name: "Trent Boult", Role: domain.RoleBowler, Nationality: "New Zealand", BasePrice: 175},
		{ID: "rachin-ravindra", Name: "Rachin Ravindra", Role: domain.RoleAllRounder, Nationality: "New Zealand", BasePrice: 150},
		{ID: "babar-azam", Name: "Babar Azam", Role: domain.RoleBatter, Nationality: "Pakistan", BasePrice: 175},
		{ID: "shaheen-afridi", Name: "Shaheen Afridi", Role: domain.RoleBowler, Nationality: "Pakistan", BasePrice: 175},
		{ID: "mohammad-rizwan", Name: "Mohammad Rizwan", Role: domain.RoleWicketKeeper, Nationality: "Pakistan", BasePrice: 150},
		{ID: "kagiso-rabada", Name: "Kagiso Rabada", Role: domain.RoleBowler, Nationality: "South Africa", BasePrice: 175},
		{ID: "quinton-de-kock", Name: "Quinton de Kock", Role: domain.RoleWicketKeeper, Nationality: "South Africa", BasePrice: 175},
		{ID: "aiden-markram", Name: "Aiden Markram", Role: domain.RoleBatter, Nationality: "South Africa", BasePrice: 150},
		{ID: "rashid-khan", Name: "Rashid Khan", Role: domain.RoleBowler, Nationality: "Afghanistan", BasePrice: 200},
		{ID: "shakib-al-hasan", Name: "Shakib Al Hasan", Role: domain.RoleAllRounder, Nationality: "Bangladesh", BasePrice: 150},
		{ID: "nicholas-pooran", Name: "Nicholas Pooran", Role: domain.RoleWicketKeeper, Nationality: "West Indies", BasePrice: 150},
		{ID: "andre-russell", Name: "Andre Russell", Role: domain.RoleAllRounder, Nationality: "West Indies", BasePrice: 175},
		{ID: "sunil-narine", Name: "Sunil Narine", Role: domain.RoleAllRounder, Nationality: "West Indies", BasePrice: 150},
	}
}
