package lunar

// heavenlyStems are the ten Can of the sexagenary cycle.
var heavenlyStems = [10]string{
	"Giáp", "Ất", "Bính", "Đinh", "Mậu", "Kỷ", "Canh", "Tân", "Nhâm", "Quý",
}

// earthlyBranches are the twelve Chi, which double as the zodiac animals.
var earthlyBranches = [12]string{
	"Tý", "Sửu", "Dần", "Mão", "Thìn", "Tỵ", "Ngọ", "Mùi", "Thân", "Dậu", "Tuất", "Hợi",
}

// ZodiacAnimal returns the zodiac animal (Chi) of a lunar year.
// 2024 is Thìn (dragon), 2023 is Mão (cat).
func ZodiacAnimal(lunarYear int) string {
	return earthlyBranches[mod(lunarYear+8, 12)]
}

// YearName returns the sexagenary name of a lunar year, e.g. "Giáp Thìn".
func YearName(lunarYear int) string {
	return heavenlyStems[mod(lunarYear+6, 10)] + " " + ZodiacAnimal(lunarYear)
}

// MonthName returns the sexagenary name of a lunar month. A leap month shares
// the name of the month it repeats.
func MonthName(month, lunarYear int) string {
	return heavenlyStems[mod(lunarYear*12+month+3, 10)] + " " + earthlyBranches[mod(month+1, 12)]
}

// DayName returns the sexagenary name of the day with the given JDN.
func DayName(jdn int) string {
	return heavenlyStems[mod(jdn+9, 10)] + " " + earthlyBranches[mod(jdn+1, 12)]
}
