package globalnames

const (
	// special forms
	IF_FORM    = "if"
	AND_FORM   = "and"
	OR_FORM    = "or"
	WHILE_FORM = "while"
	NOT_FORM   = "not"

	// host functions
	PRINT_FN = "print"
	STR_FN   = "str"
	LEN_FN   = "len"
)

var (
	SPECIAL_FORMS  = []string{IF_FORM, AND_FORM, OR_FORM, WHILE_FORM, NOT_FORM}
	HOST_FUNCTIONS = []string{PRINT_FN, STR_FN, LEN_FN}
)
