package docufill

import (
	"bytes"
	"encoding/xml"
	"io"
	"log"
)

func readerBytes(rdr io.ReadCloser) []byte {
	buf := new(bytes.Buffer)

	if rdr == nil {
		log.Printf("can't read bytes from empty reader")
		return nil
	}

	if _, err := buf.ReadFrom(rdr); err != nil {
		log.Printf("can't read bytes: %s", err)
		return nil
	}

	if err := rdr.Close(); err != nil {
		log.Printf("can't close reader: %s", err)
		return nil
	}

	return buf.Bytes()
}

// Convert document bytes to struct of xml nodes
func bytesToXMLStruct(buf []byte) *xmlNode {
	// Do not strip <w: entirely, but keep reference as w-t
	// So any string without w: would stay same, but all w- will be replaced again
	buf = bytes.ReplaceAll(buf, []byte("<w:"), []byte("<w-"))
	buf = bytes.ReplaceAll(buf, []byte("</w:"), []byte("</w-"))
	buf = bytes.ReplaceAll(buf, []byte("<v:"), []byte("<v-"))
	buf = bytes.ReplaceAll(buf, []byte("</v:"), []byte("</v-"))

	xnode := &xmlNode{}
	if err := xml.Unmarshal(buf, xnode); err != nil {
		log.Printf("bytesToXMLStruct: %v", err)
		return nil
	}

	return xnode
}

// Encode struct back to xml code bytes
func structToXMLBytes(v any) []byte {
	buf, err := xml.Marshal(v)
	if err != nil {
		log.Printf("structToXMLBytes: %v", err)
		return nil
	}

	// This is fixing `xmlns` attribute representation after marshal
	buf = bytes.ReplaceAll(buf, []byte(` xmlns:_xmlns="xmlns"`), []byte(""))
	buf = bytes.ReplaceAll(buf, []byte(`_xmlns:`), []byte("xmlns:"))
	buf = bytes.ReplaceAll(buf, []byte(` xmlns:r="r"`), []byte(""))
	buf = bytes.ReplaceAll(buf, []byte(` xmlns:o="o"`), []byte(""))

	// xml decoder doesn't support <w:t so using placeholder with "w-" (<w-t)
	buf = bytes.ReplaceAll(buf, []byte("<w-"), []byte("<w:"))
	buf = bytes.ReplaceAll(buf, []byte("</w-"), []byte("</w:"))
	buf = bytes.ReplaceAll(buf, []byte("<v-"), []byte("<v:"))
	buf = bytes.ReplaceAll(buf, []byte("</v-"), []byte("</v:"))

	return buf
}
