// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package object

import (
	"strconv"
)

// Type is an object type code, as stored in the object_type field of every
// object header.
type Type uint32

// Object type codes.
const (
	TypeUnknown                   Type = 0
	TypeCANMessage                Type = 1
	TypeCANError                  Type = 2
	TypeCANOverload               Type = 3
	TypeCANStatistic              Type = 4
	TypeAppTrigger                Type = 5
	TypeEnvInteger                Type = 6
	TypeEnvDouble                 Type = 7
	TypeEnvString                 Type = 8
	TypeEnvData                   Type = 9
	TypeLogContainer              Type = 10
	TypeLINMessage                Type = 11
	TypeLINCRCError               Type = 12
	TypeLINDLCInfo                Type = 13
	TypeLINRcvError               Type = 14
	TypeLINSndError               Type = 15
	TypeLINSlvTimeout             Type = 16
	TypeLINSchedModCh             Type = 17
	TypeLINSynError               Type = 18
	TypeLINBaudrate               Type = 19
	TypeLINSleep                  Type = 20
	TypeLINWakeup                 Type = 21
	TypeMOSTSpy                   Type = 22
	TypeMOSTCtrl                  Type = 23
	TypeMOSTLightLock             Type = 24
	TypeMOSTStatistic             Type = 25
	TypeReserved1                 Type = 26
	TypeReserved2                 Type = 27
	TypeReserved3                 Type = 28
	TypeFlexRayData               Type = 29
	TypeFlexRaySync               Type = 30
	TypeCANDriverError            Type = 31
	TypeMOSTPkt                   Type = 32
	TypeMOSTPkt2                  Type = 33
	TypeMOSTHWMode                Type = 34
	TypeMOSTReg                   Type = 35
	TypeMOSTGenReg                Type = 36
	TypeMOSTNetState              Type = 37
	TypeMOSTDataLost              Type = 38
	TypeMOSTTrigger               Type = 39
	TypeFlexRayCycle              Type = 40
	TypeFlexRayMessage            Type = 41
	TypeLINChecksumInfo           Type = 42
	TypeLINSpikeEvent             Type = 43
	TypeCANDriverSync             Type = 44
	TypeFlexRayStatus             Type = 45
	TypeGPSEvent                  Type = 46
	TypeFRError                   Type = 47
	TypeFRStatus                  Type = 48
	TypeFRStartCycle              Type = 49
	TypeFRRcvMessage              Type = 50
	TypeRealTimeClock             Type = 51
	TypeAvailable2                Type = 52
	TypeAvailable3                Type = 53
	TypeLINStatistic              Type = 54
	TypeJ1708Message              Type = 55
	TypeJ1708VirtualMsg           Type = 56
	TypeLINMessage2               Type = 57
	TypeLINSndError2              Type = 58
	TypeLINSynError2              Type = 59
	TypeLINCRCError2              Type = 60
	TypeLINRcvError2              Type = 61
	TypeLINWakeup2                Type = 62
	TypeLINSpikeEvent2            Type = 63
	TypeLINLongDomSig             Type = 64
	TypeAppText                   Type = 65
	TypeFRRcvMessageEx            Type = 66
	TypeMOSTStatisticEx           Type = 67
	TypeMOSTTxLight               Type = 68
	TypeMOSTAllocTab              Type = 69
	TypeMOSTStress                Type = 70
	TypeEthernetFrame             Type = 71
	TypeSysVariable               Type = 72
	TypeCANErrorExt               Type = 73
	TypeCANDriverErrorExt         Type = 74
	TypeLINLongDomSig2            Type = 75
	TypeMOST150Message            Type = 76
	TypeMOST150Pkt                Type = 77
	TypeMOSTEthernetPkt           Type = 78
	TypeMOST150MessageFragment    Type = 79
	TypeMOST150PktFragment        Type = 80
	TypeMOSTEthernetPktFragment   Type = 81
	TypeMOSTSystemEvent           Type = 82
	TypeMOST150AllocTab           Type = 83
	TypeMOST50Message             Type = 84
	TypeMOST50Pkt                 Type = 85
	TypeCANMessage2               Type = 86
	TypeLINUnexpectedWakeup       Type = 87
	TypeLINShortOrSlip            Type = 88
	TypeLINDisturbanceEvent       Type = 89
	TypeSerialEvent               Type = 90
	TypeOverrunError              Type = 91
	TypeEventComment              Type = 92
	TypeWLANFrame                 Type = 93
	TypeWLANStatistic             Type = 94
	TypeMOSTECL                   Type = 95
	TypeGlobalMarker              Type = 96
	TypeAFDXFrame                 Type = 97
	TypeAFDXStatistic             Type = 98
	TypeKLineStatusEvent          Type = 99
	TypeCANFDMessage              Type = 100
	TypeCANFDMessage64            Type = 101
	TypeEthernetRxError           Type = 102
	TypeEthernetStatus            Type = 103
	TypeCANFDError64              Type = 104
	TypeLINShortOrSlip2           Type = 105
	TypeAFDXStatus                Type = 106
	TypeAFDXBusStatistic          Type = 107
	TypeReserved4                 Type = 108
	TypeAFDXErrorEvent            Type = 109
	TypeA429Error                 Type = 110
	TypeA429Status                Type = 111
	TypeA429BusStatistic          Type = 112
	TypeA429Message               Type = 113
	TypeEthernetStatistic         Type = 114
	TypeReserved5                 Type = 115
	TypeReserved6                 Type = 116
	TypeReserved7                 Type = 117
	TypeTestStructure             Type = 118
	TypeDiagRequestInterpretation Type = 119
	TypeEthernetFrameEx           Type = 120
	TypeEthernetFrameForwarded    Type = 121
	TypeEthernetErrorEx           Type = 122
	TypeEthernetErrorForwarded    Type = 123
	TypeFunctionBus               Type = 124
	TypeDataLostBegin             Type = 125
	TypeDataLostEnd               Type = 126
	TypeWaterMarkEvent            Type = 127
	TypeTriggerCondition          Type = 128
	TypeCANSettingChanged         Type = 129
	TypeDistributedObjectMember   Type = 130
	TypeAttributeEvent            Type = 131
)

// typeNames holds the canonical name of every defined code, indexed by code.
var typeNames = [...]string{
	"UNKNOWN",
	"CAN_MESSAGE",
	"CAN_ERROR",
	"CAN_OVERLOAD",
	"CAN_STATISTIC",
	"APP_TRIGGER",
	"ENV_INTEGER",
	"ENV_DOUBLE",
	"ENV_STRING",
	"ENV_DATA",
	"LOG_CONTAINER",
	"LIN_MESSAGE",
	"LIN_CRC_ERROR",
	"LIN_DLC_INFO",
	"LIN_RCV_ERROR",
	"LIN_SND_ERROR",
	"LIN_SLV_TIMEOUT",
	"LIN_SCHED_MODCH",
	"LIN_SYN_ERROR",
	"LIN_BAUDRATE",
	"LIN_SLEEP",
	"LIN_WAKEUP",
	"MOST_SPY",
	"MOST_CTRL",
	"MOST_LIGHTLOCK",
	"MOST_STATISTIC",
	"RESERVED_1",
	"RESERVED_2",
	"RESERVED_3",
	"FLEXRAY_DATA",
	"FLEXRAY_SYNC",
	"CAN_DRIVER_ERROR",
	"MOST_PKT",
	"MOST_PKT2",
	"MOST_HWMODE",
	"MOST_REG",
	"MOST_GENREG",
	"MOST_NETSTATE",
	"MOST_DATALOST",
	"MOST_TRIGGER",
	"FLEXRAY_CYCLE",
	"FLEXRAY_MESSAGE",
	"LIN_CHECKSUM_INFO",
	"LIN_SPIKE_EVENT",
	"CAN_DRIVER_SYNC",
	"FLEXRAY_STATUS",
	"GPS_EVENT",
	"FR_ERROR",
	"FR_STATUS",
	"FR_STARTCYCLE",
	"FR_RCVMESSAGE",
	"REALTIMECLOCK",
	"AVAILABLE2",
	"AVAILABLE3",
	"LIN_STATISTIC",
	"J1708_MESSAGE",
	"J1708_VIRTUAL_MSG",
	"LIN_MESSAGE2",
	"LIN_SND_ERROR2",
	"LIN_SYN_ERROR2",
	"LIN_CRC_ERROR2",
	"LIN_RCV_ERROR2",
	"LIN_WAKEUP2",
	"LIN_SPIKE_EVENT2",
	"LIN_LONG_DOM_SIG",
	"APP_TEXT",
	"FR_RCVMESSAGE_EX",
	"MOST_STATISTICEX",
	"MOST_TXLIGHT",
	"MOST_ALLOCTAB",
	"MOST_STRESS",
	"ETHERNET_FRAME",
	"SYS_VARIABLE",
	"CAN_ERROR_EXT",
	"CAN_DRIVER_ERROR_EXT",
	"LIN_LONG_DOM_SIG2",
	"MOST_150_MESSAGE",
	"MOST_150_PKT",
	"MOST_ETHERNET_PKT",
	"MOST_150_MESSAGE_FRAGMENT",
	"MOST_150_PKT_FRAGMENT",
	"MOST_ETHERNET_PKT_FRAGMENT",
	"MOST_SYSTEM_EVENT",
	"MOST_150_ALLOCTAB",
	"MOST_50_MESSAGE",
	"MOST_50_PKT",
	"CAN_MESSAGE2",
	"LIN_UNEXPECTED_WAKEUP",
	"LIN_SHORT_OR_SLIP",
	"LIN_DISTURBANCE_EVENT",
	"SERIAL_EVENT",
	"OVERRUN_ERROR",
	"EVENT_COMMENT",
	"WLAN_FRAME",
	"WLAN_STATISTIC",
	"MOST_ECL",
	"GLOBAL_MARKER",
	"AFDX_FRAME",
	"AFDX_STATISTIC",
	"KLINE_STATUSEVENT",
	"CAN_FD_MESSAGE",
	"CAN_FD_MESSAGE_64",
	"ETHERNET_RX_ERROR",
	"ETHERNET_STATUS",
	"CAN_FD_ERROR_64",
	"LIN_SHORT_OR_SLIP2",
	"AFDX_STATUS",
	"AFDX_BUS_STATISTIC",
	"RESERVED_4",
	"AFDX_ERROR_EVENT",
	"A429_ERROR",
	"A429_STATUS",
	"A429_BUS_STATISTIC",
	"A429_MESSAGE",
	"ETHERNET_STATISTIC",
	"RESERVED_5",
	"RESERVED_6",
	"RESERVED_7",
	"TEST_STRUCTURE",
	"DIAG_REQUEST_INTERPRETATION",
	"ETHERNET_FRAME_EX",
	"ETHERNET_FRAME_FORWARDED",
	"ETHERNET_ERROR_EX",
	"ETHERNET_ERROR_FORWARDED",
	"FUNCTION_BUS",
	"DATA_LOST_BEGIN",
	"DATA_LOST_END",
	"WATER_MARK_EVENT",
	"TRIGGER_CONDITION",
	"CAN_SETTING_CHANGED",
	"DISTRIBUTED_OBJECT_MEMBER",
	"ATTRIBUTE_EVENT",
}

// Defined returns true if t is one of the defined object type codes.
func (t Type) Defined() bool { return int(t) < len(typeNames) }

func (t Type) String() string {
	if t.Defined() {
		return typeNames[t]
	}
	return "Type(" + strconv.FormatUint(uint64(t), 10) + ")"
}

// ParseType returns the Type with the canonical name s.
func ParseType(s string) (Type, bool) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), true
		}
	}
	return 0, false
}
