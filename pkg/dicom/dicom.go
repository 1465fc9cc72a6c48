// Package dicom reads and writes the DICOM data element stream.
//
// Reading produces a Dict of entries that keep both the formatted value and
// the raw value as decoded from the wire. Writing emits the raw value for
// every entry whose value still matches it, so an unedited dataset is
// reproduced byte for byte and an edited entry is encoded from its new value.
//
//	f, err := dicom.ReadFile("image.dcm", dicom.ReadOptions{})
//	f.Dataset.Set(tag.PatientName, vr.PN, "Doe^Jane")
//	_, err = dicom.WriteFile("out.dcm", f, dicom.WriteOptions{})
package dicom
