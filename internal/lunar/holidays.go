package lunar

// monthDay keys a holiday table.
type monthDay struct {
	month int
	day   int
}

// lunarHolidays are traditional festivals fixed in the lunar calendar.
var lunarHolidays = []struct {
	date monthDay
	name string
}{
	{monthDay{1, 1}, "Tết Nguyên Đán"},
	{monthDay{1, 15}, "Tết Nguyên Tiêu"},
	{monthDay{3, 3}, "Tết Hàn Thực"},
	{monthDay{3, 10}, "Giỗ Tổ Hùng Vương"},
	{monthDay{4, 15}, "Lễ Phật Đản"},
	{monthDay{5, 5}, "Tết Đoan Ngọ"},
	{monthDay{7, 15}, "Lễ Vu Lan"},
	{monthDay{8, 15}, "Tết Trung Thu"},
	{monthDay{12, 23}, "Ông Táo chầu trời"},
}

// solarHolidays are public holidays and observances fixed in the Gregorian calendar.
var solarHolidays = []struct {
	date monthDay
	name string
}{
	{monthDay{1, 1}, "Tết Dương lịch"},
	{monthDay{2, 3}, "Thành lập Đảng Cộng sản Việt Nam"},
	{monthDay{2, 14}, "Lễ Tình nhân"},
	{monthDay{3, 8}, "Quốc tế Phụ nữ"},
	{monthDay{4, 30}, "Giải phóng miền Nam"},
	{monthDay{5, 1}, "Quốc tế Lao động"},
	{monthDay{6, 1}, "Quốc tế Thiếu nhi"},
	{monthDay{9, 2}, "Quốc khánh"},
	{monthDay{10, 20}, "Ngày Phụ nữ Việt Nam"},
	{monthDay{11, 20}, "Ngày Nhà giáo Việt Nam"},
	{monthDay{12, 24}, "Lễ Giáng sinh"},
}

// VietnameseHoliday returns the holiday falling on a solar date in Vietnam.
//
// Lunar festivals are checked before solar holidays and the first match
// wins. A leap month matches the same table entries as the month it
// repeats.
func VietnameseHoliday(day, month, year int) (string, bool) {
	ld := SolarToLunar(day, month, year, DefaultTimeZone)
	for _, h := range lunarHolidays {
		if h.date.month == ld.Month && h.date.day == ld.Day {
			return h.name, true
		}
	}

	for _, h := range solarHolidays {
		if h.date.month == month && h.date.day == day {
			return h.name, true
		}
	}
	return "", false
}
