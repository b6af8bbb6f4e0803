package hardware

const (
	DefaultChip = "gpiochip0"
	Consumer    = "loopdrum-service"
)

// Default wiring of the 4x4 RGB button pad on a Raspberry Pi header,
// expressed as gpiochip0 line offsets (BCM numbering). Each LED row drives a
// single color line; configure three offsets per row for RGB pads.
var (
	DefaultButtonColumns = [4]int{6, 13, 19, 26}  // header pins 31, 33, 35, 37
	DefaultButtonRows    = [4]int{27, 22, 10, 9}  // header pins 13, 15, 19, 21
	DefaultLEDColumns    = [4]int{12, 16, 20, 21} // header pins 32, 36, 38, 40
	DefaultLEDRows       = [4][]int{{2}, {3}, {4}, {17}}
)
