// Package dictionary is the static tag to VR table used to resolve implicit VR
// elements and to reclassify explicit UN elements
package dictionary

import (
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
)

// Pseudo VRs for attributes whose VR depends on context
const (
	USorSS vr.VR = "xs" // US or SS, depends on Pixel Representation
	OBorOW vr.VR = "ox" // OB or OW, depends on Bits Allocated
	USorOW vr.VR = "xw" // US or OW
)

// Entry describes a dictionary attribute
type Entry struct {
	Tag     tag.Tag
	VR      vr.VR
	Keyword string
}

// Resolved returns a concrete VR, mapping the pseudo VRs to their implicit VR
// little endian reading
func (e Entry) Resolved() vr.VR {
	switch e.VR {
	case USorSS:
		return vr.US
	case OBorOW, USorOW:
		return vr.OW
	default:
		return e.VR
	}
}

// Lookup returns the dictionary entry for t. Group length elements resolve to UL.
func Lookup(t tag.Tag) (Entry, bool) {
	if e, ok := entries[t]; ok {
		return e, true
	}
	if t.IsGroupLength() && !t.IsDelimiter() {
		return Entry{Tag: t, VR: vr.UL, Keyword: "GroupLength"}, true
	}
	return Entry{}, false
}

// Keyword returns the attribute keyword for t, or "" if unknown
func Keyword(t tag.Tag) string {
	e, _ := Lookup(t)
	return e.Keyword
}

// ByKeyword returns the tag for an attribute keyword
func ByKeyword(keyword string) (tag.Tag, bool) {
	t, ok := byKeyword[keyword]
	return t, ok
}

var byKeyword = func() map[string]tag.Tag {
	m := make(map[string]tag.Tag, len(entries))
	for t, e := range entries {
		m[e.Keyword] = t
	}
	return m
}()

var entries = func() map[tag.Tag]Entry {
	m := make(map[tag.Tag]Entry, len(table))
	for _, e := range table {
		m[e.Tag] = e
	}
	return m
}()

var table = []Entry{
	// File Meta Information
	{tag.New(0x0002, 0x0000), vr.UL, "FileMetaInformationGroupLength"},
	{tag.New(0x0002, 0x0001), vr.OB, "FileMetaInformationVersion"},
	{tag.New(0x0002, 0x0002), vr.UI, "MediaStorageSOPClassUID"},
	{tag.New(0x0002, 0x0003), vr.UI, "MediaStorageSOPInstanceUID"},
	{tag.New(0x0002, 0x0010), vr.UI, "TransferSyntaxUID"},
	{tag.New(0x0002, 0x0012), vr.UI, "ImplementationClassUID"},
	{tag.New(0x0002, 0x0013), vr.SH, "ImplementationVersionName"},
	{tag.New(0x0002, 0x0016), vr.AE, "SourceApplicationEntityTitle"},
	{tag.New(0x0002, 0x0100), vr.UI, "PrivateInformationCreatorUID"},
	{tag.New(0x0002, 0x0102), vr.OB, "PrivateInformation"},

	// SOP Common, General Study/Series/Equipment
	{tag.New(0x0008, 0x0005), vr.CS, "SpecificCharacterSet"},
	{tag.New(0x0008, 0x0008), vr.CS, "ImageType"},
	{tag.New(0x0008, 0x0012), vr.DA, "InstanceCreationDate"},
	{tag.New(0x0008, 0x0013), vr.TM, "InstanceCreationTime"},
	{tag.New(0x0008, 0x0016), vr.UI, "SOPClassUID"},
	{tag.New(0x0008, 0x0018), vr.UI, "SOPInstanceUID"},
	{tag.New(0x0008, 0x0020), vr.DA, "StudyDate"},
	{tag.New(0x0008, 0x0021), vr.DA, "SeriesDate"},
	{tag.New(0x0008, 0x0022), vr.DA, "AcquisitionDate"},
	{tag.New(0x0008, 0x0023), vr.DA, "ContentDate"},
	{tag.New(0x0008, 0x002A), vr.DT, "AcquisitionDateTime"},
	{tag.New(0x0008, 0x0030), vr.TM, "StudyTime"},
	{tag.New(0x0008, 0x0031), vr.TM, "SeriesTime"},
	{tag.New(0x0008, 0x0032), vr.TM, "AcquisitionTime"},
	{tag.New(0x0008, 0x0033), vr.TM, "ContentTime"},
	{tag.New(0x0008, 0x0050), vr.SH, "AccessionNumber"},
	{tag.New(0x0008, 0x0060), vr.CS, "Modality"},
	{tag.New(0x0008, 0x0064), vr.CS, "ConversionType"},
	{tag.New(0x0008, 0x0068), vr.CS, "PresentationIntentType"},
	{tag.New(0x0008, 0x0070), vr.LO, "Manufacturer"},
	{tag.New(0x0008, 0x0080), vr.LO, "InstitutionName"},
	{tag.New(0x0008, 0x0081), vr.ST, "InstitutionAddress"},
	{tag.New(0x0008, 0x0090), vr.PN, "ReferringPhysicianName"},
	{tag.New(0x0008, 0x0100), vr.SH, "CodeValue"},
	{tag.New(0x0008, 0x0102), vr.SH, "CodingSchemeDesignator"},
	{tag.New(0x0008, 0x0104), vr.LO, "CodeMeaning"},
	{tag.New(0x0008, 0x0201), vr.SH, "TimezoneOffsetFromUTC"},
	{tag.New(0x0008, 0x1010), vr.SH, "StationName"},
	{tag.New(0x0008, 0x1030), vr.LO, "StudyDescription"},
	{tag.New(0x0008, 0x103E), vr.LO, "SeriesDescription"},
	{tag.New(0x0008, 0x1040), vr.LO, "InstitutionalDepartmentName"},
	{tag.New(0x0008, 0x1050), vr.PN, "PerformingPhysicianName"},
	{tag.New(0x0008, 0x1070), vr.PN, "OperatorsName"},
	{tag.New(0x0008, 0x1090), vr.LO, "ManufacturerModelName"},
	{tag.New(0x0008, 0x1115), vr.SQ, "ReferencedSeriesSequence"},
	{tag.New(0x0008, 0x1140), vr.SQ, "ReferencedImageSequence"},
	{tag.New(0x0008, 0x1150), vr.UI, "ReferencedSOPClassUID"},
	{tag.New(0x0008, 0x1155), vr.UI, "ReferencedSOPInstanceUID"},
	{tag.New(0x0008, 0x2111), vr.ST, "DerivationDescription"},
	{tag.New(0x0008, 0x9215), vr.SQ, "DerivationCodeSequence"},

	// Patient
	{tag.New(0x0010, 0x0010), vr.PN, "PatientName"},
	{tag.New(0x0010, 0x0020), vr.LO, "PatientID"},
	{tag.New(0x0010, 0x0021), vr.LO, "IssuerOfPatientID"},
	{tag.New(0x0010, 0x0030), vr.DA, "PatientBirthDate"},
	{tag.New(0x0010, 0x0040), vr.CS, "PatientSex"},
	{tag.New(0x0010, 0x1000), vr.LO, "OtherPatientIDs"},
	{tag.New(0x0010, 0x1001), vr.PN, "OtherPatientNames"},
	{tag.New(0x0010, 0x1010), vr.AS, "PatientAge"},
	{tag.New(0x0010, 0x1020), vr.DS, "PatientSize"},
	{tag.New(0x0010, 0x1030), vr.DS, "PatientWeight"},
	{tag.New(0x0010, 0x2160), vr.SH, "EthnicGroup"},
	{tag.New(0x0010, 0x21B0), vr.LT, "AdditionalPatientHistory"},
	{tag.New(0x0010, 0x4000), vr.LT, "PatientComments"},

	// Acquisition
	{tag.New(0x0018, 0x0015), vr.CS, "BodyPartExamined"},
	{tag.New(0x0018, 0x0050), vr.DS, "SliceThickness"},
	{tag.New(0x0018, 0x0060), vr.DS, "KVP"},
	{tag.New(0x0018, 0x0088), vr.DS, "SpacingBetweenSlices"},
	{tag.New(0x0018, 0x1000), vr.LO, "DeviceSerialNumber"},
	{tag.New(0x0018, 0x1020), vr.LO, "SoftwareVersions"},
	{tag.New(0x0018, 0x1030), vr.LO, "ProtocolName"},
	{tag.New(0x0018, 0x1150), vr.IS, "ExposureTime"},
	{tag.New(0x0018, 0x1151), vr.IS, "XRayTubeCurrent"},
	{tag.New(0x0018, 0x1152), vr.IS, "Exposure"},
	{tag.New(0x0018, 0x5100), vr.CS, "PatientPosition"},
	{tag.New(0x0018, 0x9306), vr.FD, "SingleCollimationWidth"},
	{tag.New(0x0018, 0x9307), vr.FD, "TotalCollimationWidth"},

	// Relationship, Frame of Reference, Image Plane
	{tag.New(0x0020, 0x000D), vr.UI, "StudyInstanceUID"},
	{tag.New(0x0020, 0x000E), vr.UI, "SeriesInstanceUID"},
	{tag.New(0x0020, 0x0010), vr.SH, "StudyID"},
	{tag.New(0x0020, 0x0011), vr.IS, "SeriesNumber"},
	{tag.New(0x0020, 0x0012), vr.IS, "AcquisitionNumber"},
	{tag.New(0x0020, 0x0013), vr.IS, "InstanceNumber"},
	{tag.New(0x0020, 0x0020), vr.CS, "PatientOrientation"},
	{tag.New(0x0020, 0x0032), vr.DS, "ImagePositionPatient"},
	{tag.New(0x0020, 0x0037), vr.DS, "ImageOrientationPatient"},
	{tag.New(0x0020, 0x0052), vr.UI, "FrameOfReferenceUID"},
	{tag.New(0x0020, 0x1040), vr.LO, "PositionReferenceIndicator"},
	{tag.New(0x0020, 0x1041), vr.DS, "SliceLocation"},
	{tag.New(0x0020, 0x4000), vr.LT, "ImageComments"},

	// Image Pixel, VOI LUT, Modality LUT
	{tag.New(0x0028, 0x0002), vr.US, "SamplesPerPixel"},
	{tag.New(0x0028, 0x0004), vr.CS, "PhotometricInterpretation"},
	{tag.New(0x0028, 0x0006), vr.US, "PlanarConfiguration"},
	{tag.New(0x0028, 0x0008), vr.IS, "NumberOfFrames"},
	{tag.New(0x0028, 0x0009), vr.AT, "FrameIncrementPointer"},
	{tag.New(0x0028, 0x0010), vr.US, "Rows"},
	{tag.New(0x0028, 0x0011), vr.US, "Columns"},
	{tag.New(0x0028, 0x0030), vr.DS, "PixelSpacing"},
	{tag.New(0x0028, 0x0100), vr.US, "BitsAllocated"},
	{tag.New(0x0028, 0x0101), vr.US, "BitsStored"},
	{tag.New(0x0028, 0x0102), vr.US, "HighBit"},
	{tag.New(0x0028, 0x0103), vr.US, "PixelRepresentation"},
	{tag.New(0x0028, 0x0106), USorSS, "SmallestImagePixelValue"},
	{tag.New(0x0028, 0x0107), USorSS, "LargestImagePixelValue"},
	{tag.New(0x0028, 0x0120), USorSS, "PixelPaddingValue"},
	{tag.New(0x0028, 0x0121), USorSS, "PixelPaddingRangeLimit"},
	{tag.New(0x0028, 0x1050), vr.DS, "WindowCenter"},
	{tag.New(0x0028, 0x1051), vr.DS, "WindowWidth"},
	{tag.New(0x0028, 0x1052), vr.DS, "RescaleIntercept"},
	{tag.New(0x0028, 0x1053), vr.DS, "RescaleSlope"},
	{tag.New(0x0028, 0x1054), vr.LO, "RescaleType"},
	{tag.New(0x0028, 0x1055), vr.LO, "WindowCenterWidthExplanation"},
	{tag.New(0x0028, 0x1056), vr.CS, "VOILUTFunction"},
	{tag.New(0x0028, 0x1101), USorSS, "RedPaletteColorLookupTableDescriptor"},
	{tag.New(0x0028, 0x1102), USorSS, "GreenPaletteColorLookupTableDescriptor"},
	{tag.New(0x0028, 0x1103), USorSS, "BluePaletteColorLookupTableDescriptor"},
	{tag.New(0x0028, 0x1201), vr.OW, "RedPaletteColorLookupTableData"},
	{tag.New(0x0028, 0x1202), vr.OW, "GreenPaletteColorLookupTableData"},
	{tag.New(0x0028, 0x1203), vr.OW, "BluePaletteColorLookupTableData"},
	{tag.New(0x0028, 0x2110), vr.CS, "LossyImageCompression"},
	{tag.New(0x0028, 0x2112), vr.DS, "LossyImageCompressionRatio"},
	{tag.New(0x0028, 0x3000), vr.SQ, "ModalityLUTSequence"},
	{tag.New(0x0028, 0x3002), USorSS, "LUTDescriptor"},
	{tag.New(0x0028, 0x3003), vr.LO, "LUTExplanation"},
	{tag.New(0x0028, 0x3006), USorOW, "LUTData"},
	{tag.New(0x0028, 0x3010), vr.SQ, "VOILUTSequence"},

	// Misc
	{tag.New(0x0040, 0x0244), vr.DA, "PerformedProcedureStepStartDate"},
	{tag.New(0x0040, 0x0253), vr.SH, "PerformedProcedureStepID"},
	{tag.New(0x0040, 0xA730), vr.SQ, "ContentSequence"},
	{tag.New(0x0054, 0x0081), vr.US, "NumberOfSlices"},
	{tag.New(0x0088, 0x0140), vr.UI, "StorageMediaFileSetUID"},
	{tag.New(0x2050, 0x0020), vr.CS, "PresentationLUTShape"},
	{tag.New(0x0042, 0x0011), vr.OB, "EncapsulatedDocument"},
	{tag.New(0x0042, 0x0012), vr.LO, "MIMETypeOfEncapsulatedDocument"},

	// Pixel Data
	{tag.New(0x7FE0, 0x0008), vr.OF, "FloatPixelData"},
	{tag.New(0x7FE0, 0x0009), vr.OD, "DoubleFloatPixelData"},
	{tag.New(0x7FE0, 0x0010), OBorOW, "PixelData"},
	{tag.New(0xFFFA, 0xFFFA), vr.SQ, "DigitalSignaturesSequence"},
	{tag.New(0xFFFC, 0xFFFC), vr.OB, "DataSetTrailingPadding"},
}
