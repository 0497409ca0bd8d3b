package category

// Campus option sets. Only the labels are stored, positions are display order.
var (
	AbsenceCampus = NewTable("absenceCampus", "서울", "대전", "구미", "부울경", "광주")
	ChangeCampus  = NewTable("changeCampus",  "서울", "대전", "구미", "부울경", "대구")
)
