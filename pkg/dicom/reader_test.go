package dicom

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jpfielding/dcmcodec/pkg/dicom/stream"
	"github.com/jpfielding/dcmcodec/pkg/dicom/tag"
	"github.com/jpfielding/dcmcodec/pkg/dicom/transfer"
	"github.com/jpfielding/dcmcodec/pkg/dicom/vr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadMinimalFile(t *testing.T) {
	dataset := explicitLE().text(tag.PatientName, vr.PN, "Doe^John").bytes()
	f, err := ReadBuffer(buildFile(transfer.ExplicitVRLittleEndian, dataset), ReadOptions{})
	require.NoError(t, err)

	e, ok := f.Dataset["00100010"]
	require.True(t, ok)
	assert.Equal(t, vr.PN, e.VR)
	assert.Equal(t, []any{"Doe^John"}, e.Value)
	assert.Equal(t, string(transfer.ExplicitVRLittleEndian), f.TransferSyntax())
	_, ok = f.Meta.Get(tag.FileMetaInformationGroupLength)
	assert.False(t, ok, "group length is recomputed on write")
}

func TestReadSample(t *testing.T) {
	tests := []struct {
		name   string
		b      *builder
		syntax transfer.Syntax
	}{
		{"explicit little", explicitLE(), transfer.ExplicitVRLittleEndian},
		{"implicit little", implicitLE(), transfer.ImplicitVRLittleEndian},
		{"explicit big", explicitBE(), transfer.ExplicitVRBigEndian},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ReadDataset(sample(tt.b, "Doe^John"), string(tt.syntax), ReadOptions{})
			require.NoError(t, err)

			assert.Equal(t, []any{"ORIGINAL", "PRIMARY"}, d["00080008"].Value)
			assert.Equal(t, []any{"1.2.840.10008.5.1.4.1.1.7"}, d["00080016"].Value)
			assert.Equal(t, []any{1.5}, d["00180050"].Value)
			assert.Equal(t, []any{"1.50"}, d["00180050"].RawValue)
			assert.Equal(t, []any{int64(5)}, d["00200013"].Value)
			assert.Equal(t, []any{-1.0, 2.5, 3.0}, d["00200032"].Value)
			assert.Equal(t, []any{"-1.0", "2.50", "3"}, d["00200032"].RawValue)
			assert.Equal(t, []any{1.25}, d["00189306"].Value)
			assert.Equal(t, []any{tag.New(0x0018, 0x1063)}, d["00280009"].Value)
			assert.Equal(t, []any{uint16(512)}, d["00280010"].Value)
			assert.Equal(t, []any{[]byte{1, 2, 3, 4}}, d["7FE00010"].Value)
			assert.Equal(t, vr.OW, d["7FE00010"].VR)
			assert.Equal(t, vr.LO, d["00090010"].VR)
			assert.Equal(t, vr.UN, d["00091001"].VR)

			seq := d["00081140"]
			require.Equal(t, vr.SQ, seq.VR)
			require.Len(t, seq.Value, 1)
			item, ok := seq.Value[0].(Dict)
			require.True(t, ok)
			assert.Equal(t, []any{"1.2.3"}, item["00081150"].Value)
			assert.Equal(t, []any{"1.2.3.4"}, item["00081155"].Value)

			for key, e := range d {
				assert.Len(t, e.RawValue, len(e.Value), key)
			}
		})
	}
}

func TestReadHeaderValidation(t *testing.T) {
	good := buildFile(transfer.ExplicitVRLittleEndian, nil)

	badMagic := bytes.Clone(good)
	copy(badMagic[128:], "DICN")

	badFirst := bytes.Clone(good)
	badFirst[132+2] = 0x01 // (0002,0001) instead of (0002,0000)

	noSyntax := explicitLE().raw(make([]byte, preambleSize)).raw([]byte(magic))
	meta := explicitLE().element(tag.FileMetaInformationVersion, vr.OB, []byte{0, 1}).bytes()
	noSyntax.header(tag.FileMetaInformationGroupLength, vr.UL, 4).u32(uint32(len(meta))).raw(meta)

	tests := []struct {
		name string
		data []byte
	}{
		{"short", good[:100]},
		{"bad magic", badMagic},
		{"bad first element", badFirst},
		{"no transfer syntax", noSyntax.bytes()},
		{"truncated meta", good[:150]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, ignore := range []bool{false, true} {
				_, err := ReadBuffer(tt.data, ReadOptions{IgnoreErrors: ignore})
				assert.ErrorIs(t, err, ErrMalformedFile, "ignore=%v", ignore)
			}
		})
	}
}

func TestReadCharacterSet(t *testing.T) {
	data := explicitLE().
		text(tag.SpecificCharacterSet, vr.CS, "ISO_IR 100").
		element(tag.PatientName, vr.PN, []byte{'J', 'o', 's', 0xE9}).
		bytes()
	d, err := ReadDataset(data, string(transfer.ExplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []any{"José"}, d["00100010"].Value)
	assert.Equal(t, []any{"ISO_IR 192"}, d["00080005"].Value)
	assert.Equal(t, []any{"ISO_IR 100"}, d["00080005"].RawValue)
	assert.False(t, Unmodified(d["00080005"]), "the declaration is always written fresh")

	var buf bytes.Buffer
	_, err = Write(&buf, d, string(transfer.ExplicitVRLittleEndian), WriteOptions{})
	require.NoError(t, err)
	want := explicitLE().
		text(tag.SpecificCharacterSet, vr.CS, "ISO_IR 192").
		text(tag.PatientName, vr.PN, "José ").
		bytes()
	assert.Equal(t, want, buf.Bytes())

	again, err := ReadDataset(buf.Bytes(), string(transfer.ExplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{"José"}, again["00100010"].Value)
}

func TestReadMultipleCharacterSets(t *testing.T) {
	data := explicitLE().
		text(tag.SpecificCharacterSet, vr.CS, `ISO_IR 100\ISO_IR 144 `).
		element(tag.PatientName, vr.PN, []byte{'J', 'o', 's', 0xE9}).
		bytes()
	uid := string(transfer.ExplicitVRLittleEndian)

	_, err := ReadDataset(data, uid, ReadOptions{})
	assert.ErrorIs(t, err, ErrMultipleCharacterSets)
	var rec *RecoverableError
	assert.True(t, errors.As(err, &rec))

	d, err := ReadDataset(data, uid, ReadOptions{IgnoreErrors: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"José"}, d["00100010"].Value, "decoded with the first character set")
	assert.Equal(t, []any{"ISO_IR 192"}, d["00080005"].Value)
}

func TestReadUnsupportedCharacterSet(t *testing.T) {
	data := explicitLE().
		text(tag.SpecificCharacterSet, vr.CS, "ISO_IR 999").
		element(tag.PatientName, vr.PN, []byte{'J', 'o', 's', 0xE9}).
		bytes()
	uid := string(transfer.ExplicitVRLittleEndian)

	_, err := ReadDataset(data, uid, ReadOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedCharacterSet)

	d, err := ReadDataset(data, uid, ReadOptions{IgnoreErrors: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"José"}, d["00100010"].Value, "default repertoire stays active")
}

func TestReadCharacterSetInItem(t *testing.T) {
	item := func(term string) []byte {
		b := explicitLE()
		b.header(sequenceTag, vr.SQ, undefinedLength).
			delimiter(tag.Item, undefinedLength).
			text(tag.SpecificCharacterSet, vr.CS, term).
			delimiter(tag.ItemDelimitationItem, 0).
			delimiter(tag.SequenceDelimitationItem, 0)
		return b.bytes()
	}
	head := explicitLE().text(tag.SpecificCharacterSet, vr.CS, "ISO_IR 100").bytes()
	uid := string(transfer.ExplicitVRLittleEndian)

	_, err := ReadDataset(append(bytes.Clone(head), item("ISO_IR 100")...), uid, ReadOptions{})
	assert.NoError(t, err, "repeating the same character set is allowed")

	_, err = ReadDataset(append(bytes.Clone(head), item("ISO_IR 144")...), uid, ReadOptions{})
	assert.ErrorIs(t, err, ErrMultipleCharacterSets)

	// an empty first term still installs the default repertoire
	data := explicitLE().text(tag.SpecificCharacterSet, vr.CS, `\ISO 2022 IR 87 `).bytes()
	data = append(data, item("ISO_IR 144")...)
	data = append(data, explicitLE().element(tag.PatientName, vr.PN, []byte{'J', 'o', 's', 0xE9}).bytes()...)
	d, err := ReadDataset(data, uid, ReadOptions{IgnoreErrors: true})
	require.NoError(t, err)
	assert.Equal(t, []any{"José"}, d["00100010"].Value, "the item does not replace the installed character set")
}

func TestImplicitVR(t *testing.T) {
	unknown := tag.New(0x0009, 0x1010)
	tests := []struct {
		name   string
		tag    tag.Tag
		length uint32
		want   vr.VR
	}{
		{"dictionary", tag.PatientName, 8, vr.PN},
		{"pseudo US or SS", tag.New(0x0028, 0x0106), 2, vr.US},
		{"pseudo OB or OW", tag.PixelData, 4, vr.OW},
		{"group length", tag.New(0x0009, 0x0000), 4, vr.UL},
		{"undefined length", unknown, undefinedLength, vr.SQ},
		{"private creator", tag.New(0x0009, 0x0010), 4, vr.LO},
		{"unknown", unknown, 4, vr.UN},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, implicitVR(tt.tag, tt.length))
		})
	}
}

func TestReadUnknownUndefinedLength(t *testing.T) {
	unknown := tag.New(0x0009, 0x1010)
	data := implicitLE().
		header(unknown, vr.UN, undefinedLength).
		delimiter(tag.SequenceDelimitationItem, 0).
		element(tag.New(0x0009, 0x1011), vr.UN, []byte{9, 9}).
		bytes()
	d, err := ReadDataset(data, string(transfer.ImplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, vr.SQ, d["00091010"].VR)
	assert.Empty(t, d["00091010"].Value)
	assert.Equal(t, vr.UN, d["00091011"].VR)
}

func TestReadUNEncapsulatedPixelData(t *testing.T) {
	b := explicitLE()
	b.header(tag.PixelData, vr.UN, undefinedLength).
		delimiter(tag.Item, 0).
		delimiter(tag.Item, 2).raw([]byte{1, 2}).
		delimiter(tag.SequenceDelimitationItem, 0)

	d, err := ReadDataset(b.bytes(), string(transfer.ExplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)
	px := d["7FE00010"]
	require.NotNil(t, px)
	assert.Equal(t, vr.OW, px.VR)
	require.Len(t, px.Value, 2)
	assert.Empty(t, px.Value[0], "empty basic offset table")
	assert.Equal(t, []byte{1, 2}, px.Value[1])
}

func TestReadUNReclassified(t *testing.T) {
	b := explicitBE()
	b.element(tag.PatientName, vr.UN, []byte("Doe^John"))
	b.element(tag.Rows, vr.UN, []byte{0x00, 0x02}) // value is little endian
	b.header(tag.New(0x0009, 0x1002), vr.UN, undefinedLength)
	b.raw(implicitLE().
		delimiter(tag.Item, undefinedLength).
		element(tag.New(0x0009, 0x1003), vr.UN, []byte{7, 7}).
		delimiter(tag.ItemDelimitationItem, 0).
		delimiter(tag.SequenceDelimitationItem, 0).
		bytes())
	b.element(tag.New(0x0009, 0x1004), vr.UN, []byte{1, 2})

	d, err := ReadDataset(b.bytes(), string(transfer.ExplicitVRBigEndian), ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, vr.PN, d["00100010"].VR)
	assert.Equal(t, []any{"Doe^John"}, d["00100010"].Value)
	assert.Equal(t, vr.US, d["00280010"].VR)
	assert.Equal(t, []any{uint16(512)}, d["00280010"].Value)

	seq := d["00091002"]
	require.Equal(t, vr.SQ, seq.VR)
	require.Len(t, seq.Value, 1)
	item := seq.Value[0].(Dict)
	assert.Equal(t, []any{[]byte{7, 7}}, item["00091003"].Value)

	assert.Equal(t, vr.UN, d["00091004"].VR, "unknown UN stays UN")
}

func TestReadUntilTag(t *testing.T) {
	data := explicitLE().
		text(tag.PatientName, vr.PN, "Doe^John").
		text(tag.PatientID, vr.LO, "12").
		element(tag.StudyInstanceUID, vr.UI, uid("1.2.3")).
		bytes()
	uid := string(transfer.ExplicitVRLittleEndian)
	until := tag.PatientID

	d, err := ReadDataset(data, uid, ReadOptions{UntilTag: &until})
	require.NoError(t, err)
	assert.Equal(t, []string{"00100010"}, d.Keys())

	d, err = ReadDataset(data, uid, ReadOptions{UntilTag: &until, IncludeUntilTagValue: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"00100010", "00100020"}, d.Keys())
	assert.Equal(t, []any{"12"}, d["00100020"].Value)
}

func TestReadUntilTagInFile(t *testing.T) {
	dataset := explicitLE().
		text(tag.PatientName, vr.PN, "Doe^John").
		text(tag.PatientID, vr.LO, "12").
		bytes()
	until := tag.TransferSyntaxUID
	f, err := ReadBuffer(buildFile(transfer.ExplicitVRLittleEndian, dataset), ReadOptions{UntilTag: &until})
	require.NoError(t, err)
	assert.Contains(t, f.Meta, "00020010", "the stop tag only applies to the dataset")
	assert.Len(t, f.Dataset, 2)
}

func TestReadIgnoreErrors(t *testing.T) {
	good := explicitLE().text(tag.PatientName, vr.PN, "Doe^John")
	tests := []struct {
		name string
		data []byte
	}{
		{"unknown VR", explicitLE().raw(good.bytes()).text(tag.PatientID, "ZZ", "12").bytes()},
		{"bad US length", explicitLE().raw(good.bytes()).element(tag.Rows, vr.US, []byte{1, 2, 3}).bytes()},
		{"truncated value", append(good.bytes(), explicitLE().header(tag.PatientID, vr.LO, 10).raw([]byte("12")).bytes()...)},
		{"missing item delimiter", append(good.bytes(), explicitLE().
			header(sequenceTag, vr.SQ, undefinedLength).
			delimiter(tag.Item, undefinedLength).
			text(tag.PatientID, vr.LO, "12").
			bytes()...)},
	}
	uid := string(transfer.ExplicitVRLittleEndian)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(tt.data, uid, ReadOptions{})
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrMalformedFile)

			d, err := ReadDataset(tt.data, uid, ReadOptions{IgnoreErrors: true})
			require.NoError(t, err)
			assert.Equal(t, []string{"00100010"}, d.Keys(), "partial result")
		})
	}
}

func TestReadBinarySplit(t *testing.T) {
	data := explicitLE().
		us(tag.Rows, 1, 2, 3).
		fd(collimationTag, 1.5, -2.0).
		bytes()
	d, err := ReadDataset(data, string(transfer.ExplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)

	rows := d["00280010"]
	assert.Equal(t, []any{uint16(1), uint16(2), uint16(3)}, rows.Value)
	assert.Equal(t, rows.Value, rows.RawValue)

	fd := d["00189306"]
	require.Len(t, fd.RawValue, 2)

	// the values encoded one at a time concatenate to the original value bytes
	ec := newEncodeContext(string(transfer.ExplicitVRLittleEndian), WriteOptions{})
	var joined []byte
	for _, v := range fd.RawValue {
		b, err := codecFor(vr.FD).encode([]any{v}, false, ec)
		require.NoError(t, err)
		joined = append(joined, b...)
	}
	assert.Equal(t, data[len(data)-16:], joined)
}

func TestReadDefinedLengthSequence(t *testing.T) {
	item := explicitLE().
		element(refClassTag, vr.UI, uid("1.2.3")).
		bytes()
	items := explicitLE().
		delimiter(tag.Item, uint32(len(item))).raw(item).
		delimiter(tag.Item, 0).
		bytes()
	data := explicitLE().element(sequenceTag, vr.SQ, items).bytes()

	d, err := ReadDataset(data, string(transfer.ExplicitVRLittleEndian), ReadOptions{})
	require.NoError(t, err)
	seq := d["00081140"]
	require.Len(t, seq.Value, 2)
	assert.Equal(t, []any{"1.2.3"}, seq.Value[0].(Dict)["00081150"].Value)
	assert.Empty(t, seq.Value[1].(Dict))
}

func TestReadEncapsulatedPixelData(t *testing.T) {
	dataset := explicitLE().
		us(tag.Rows, 2).
		header(tag.PixelData, vr.OB, undefinedLength).
		delimiter(tag.Item, 0).
		delimiter(tag.Item, 4).raw([]byte{1, 2, 3, 4}).
		delimiter(tag.Item, 2).raw([]byte{5, 6}).
		delimiter(tag.SequenceDelimitationItem, 0).
		bytes()
	data := buildFile(transfer.JPEGBaseline, dataset)
	f, err := ReadBuffer(data, ReadOptions{})
	require.NoError(t, err)

	px := f.Dataset["7FE00010"]
	require.Len(t, px.Value, 3)
	assert.Empty(t, px.Value[0], "empty basic offset table")
	assert.Equal(t, []byte{1, 2, 3, 4}, px.Value[1])
	assert.Equal(t, []byte{5, 6}, px.Value[2])

	var buf bytes.Buffer
	_, err = f.Write(&buf, WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, data, buf.Bytes())
}

func TestReadDeflated(t *testing.T) {
	dataset := explicitLE().
		text(tag.PatientName, vr.PN, "Doe^John").
		us(tag.Rows, 512).
		bytes()
	var compressed bytes.Buffer
	zw, err := stream.Deflate(&compressed)
	require.NoError(t, err)
	_, err = zw.Write(dataset)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	f, err := ReadBuffer(buildFile(transfer.DeflatedExplicitVR, compressed.Bytes()), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []any{"Doe^John"}, f.Dataset["00100010"].Value)
	assert.Equal(t, []any{uint16(512)}, f.Dataset["00280010"].Value)

	var buf bytes.Buffer
	_, err = f.Write(&buf, WriteOptions{})
	require.NoError(t, err)
	again, err := ReadBuffer(buf.Bytes(), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, f.Dataset, again.Dataset)
}
