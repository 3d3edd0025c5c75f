package property

// Property tag ids from the firmware interface.
const (
	TagGetFirmwareRevision uint32 = 0x00000001
	TagGetBoardModel       uint32 = 0x00010001
	TagGetBoardRevision    uint32 = 0x00010002
	TagGetBoardMAC         uint32 = 0x00010003
	TagGetBoardSerial      uint32 = 0x00010004
	TagGetARMMemory        uint32 = 0x00010005
	TagGetVCMemory         uint32 = 0x00010006
	TagGetClockRate        uint32 = 0x00030002
	TagGetTemperature      uint32 = 0x00030006
)

// Clock ids for TagGetClockRate.
const (
	ClockEMMC uint32 = 1
	ClockUART uint32 = 2
	ClockARM  uint32 = 3
	ClockCore uint32 = 4
)
