package otai

// Linecard attributes
const (
	LinecardAttrHardwareInfo AttrID = iota
	LinecardAttrSoftwareVersion
	LinecardAttrOperStatus
	LinecardAttrAdminState
	LinecardAttrPortList
	LinecardAttrStateChangeNotify
	LinecardAttrAlarmNotify
	LinecardAttrOCMSpectrumPowerNotify
	LinecardAttrOTDRResultNotify
)

// LinecardAttrFlush drains the channel's outbound buffer. Local extension:
// serviced by the bridge without a round trip, works before any linecard
// exists.
const LinecardAttrFlush = CustomRangeStart

// Linecard statistics
const (
	LinecardStatMemoryUsage StatID = iota
	LinecardStatCPUUtilization
	LinecardStatTemperature
)

// Port attributes
const (
	PortAttrAdminState AttrID = iota
	PortAttrOperStatus
	PortAttrLaserEnabled
	PortAttrTargetOutputPower
)

// Port statistics
const (
	PortStatInOctets StatID = iota
	PortStatOutOctets
	PortStatInputPower
	PortStatOutputPower
)

// OCM attributes
const (
	OCMAttrScanEnable AttrID = iota
	OCMAttrFrequencyGranularity
)

// OTDR attributes
const (
	OTDRAttrScanEnable AttrID = iota
	OTDRAttrDistanceRange
)

// The default catalog covers the object types the bridge manages out of the
// box. Deployments with vendor extensions register additional schemas
// before Initialize.
func init() {
	RegisterObjectType(ObjectTypeInfo{
		Type: ObjectTypeLinecard,
		Attrs: []AttrMetadata{
			{ID: LinecardAttrHardwareInfo, Name: "OTAI_LINECARD_ATTR_HARDWARE_INFO", Type: ValueTypeString},
			{ID: LinecardAttrSoftwareVersion, Name: "OTAI_LINECARD_ATTR_SOFTWARE_VERSION", Type: ValueTypeString},
			{ID: LinecardAttrOperStatus, Name: "OTAI_LINECARD_ATTR_OPER_STATUS", Type: ValueTypeUint64},
			{ID: LinecardAttrAdminState, Name: "OTAI_LINECARD_ATTR_ADMIN_STATE", Type: ValueTypeBool},
			{ID: LinecardAttrPortList, Name: "OTAI_LINECARD_ATTR_PORT_LIST", Type: ValueTypeObjectIDList},
			{ID: LinecardAttrStateChangeNotify, Name: "OTAI_LINECARD_ATTR_STATE_CHANGE_NOTIFY", Type: ValueTypeNotifyHandler},
			{ID: LinecardAttrAlarmNotify, Name: "OTAI_LINECARD_ATTR_ALARM_NOTIFY", Type: ValueTypeNotifyHandler},
			{ID: LinecardAttrOCMSpectrumPowerNotify, Name: "OTAI_LINECARD_ATTR_OCM_SPECTRUM_POWER_NOTIFY", Type: ValueTypeNotifyHandler},
			{ID: LinecardAttrOTDRResultNotify, Name: "OTAI_LINECARD_ATTR_OTDR_RESULT_NOTIFY", Type: ValueTypeNotifyHandler},
			{ID: LinecardAttrFlush, Name: "OTAI_LINECARD_ATTR_FLUSH", Type: ValueTypeBool},
		},
		Stats: []StatMetadata{
			{ID: LinecardStatMemoryUsage, Name: "OTAI_LINECARD_STAT_MEMORY_USAGE", Type: StatValueTypeUint64},
			{ID: LinecardStatCPUUtilization, Name: "OTAI_LINECARD_STAT_CPU_UTILIZATION", Type: StatValueTypeDouble},
			{ID: LinecardStatTemperature, Name: "OTAI_LINECARD_STAT_TEMPERATURE", Type: StatValueTypeDouble},
		},
	})

	RegisterObjectType(ObjectTypeInfo{
		Type: ObjectTypePort,
		Attrs: []AttrMetadata{
			{ID: PortAttrAdminState, Name: "OTAI_PORT_ATTR_ADMIN_STATE", Type: ValueTypeBool},
			{ID: PortAttrOperStatus, Name: "OTAI_PORT_ATTR_OPER_STATUS", Type: ValueTypeUint64},
			{ID: PortAttrLaserEnabled, Name: "OTAI_PORT_ATTR_LASER_ENABLED", Type: ValueTypeBool},
			{ID: PortAttrTargetOutputPower, Name: "OTAI_PORT_ATTR_TARGET_OUTPUT_POWER", Type: ValueTypeDouble},
		},
		Stats: []StatMetadata{
			{ID: PortStatInOctets, Name: "OTAI_PORT_STAT_IN_OCTETS", Type: StatValueTypeUint64},
			{ID: PortStatOutOctets, Name: "OTAI_PORT_STAT_OUT_OCTETS", Type: StatValueTypeUint64},
			{ID: PortStatInputPower, Name: "OTAI_PORT_STAT_INPUT_POWER", Type: StatValueTypeDouble},
			{ID: PortStatOutputPower, Name: "OTAI_PORT_STAT_OUTPUT_POWER", Type: StatValueTypeDouble},
		},
	})

	RegisterObjectType(ObjectTypeInfo{
		Type: ObjectTypeOCM,
		Attrs: []AttrMetadata{
			{ID: OCMAttrScanEnable, Name: "OTAI_OCM_ATTR_SCAN_ENABLE", Type: ValueTypeBool},
			{ID: OCMAttrFrequencyGranularity, Name: "OTAI_OCM_ATTR_FREQUENCY_GRANULARITY", Type: ValueTypeUint64},
		},
	})

	RegisterObjectType(ObjectTypeInfo{
		Type: ObjectTypeOTDR,
		Attrs: []AttrMetadata{
			{ID: OTDRAttrScanEnable, Name: "OTAI_OTDR_ATTR_SCAN_ENABLE", Type: ValueTypeBool},
			{ID: OTDRAttrDistanceRange, Name: "OTAI_OTDR_ATTR_DISTANCE_RANGE", Type: ValueTypeUint64},
		},
	})
}
