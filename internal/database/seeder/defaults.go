package seeder

func Defaults() []Seeder {
	return []Seeder{
		DemoPersonaSeeder{},
		DemoPostingsSeeder{},
	}
}
