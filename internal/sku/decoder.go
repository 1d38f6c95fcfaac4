package sku

// Decoder maps a code bucket to code → human-readable meaning. A decoder is
// built once per legend upload and treated as read-only afterwards; a new
// upload replaces it wholesale.
type Decoder map[CodeType]map[string]string

// NewDecoder returns a decoder with every bucket allocated.
func NewDecoder() Decoder {
	d := make(Decoder, len(CodeTypes()))
	for _, ct := range CodeTypes() {
		d[ct] = make(map[string]string)
	}
	return d
}

// Set stores meaning under code. A repeated code in the same bucket replaces
// the earlier meaning.
func (d Decoder) Set(ct CodeType, code, meaning string) {
	bucket, ok := d[ct]
	if !ok {
		bucket = make(map[string]string)
		d[ct] = bucket
	}
	bucket[code] = meaning
}

func (d Decoder) Lookup(ct CodeType, code string) (string, bool) {
	if code == "" {
		return "", false
	}
	meaning, ok := d[ct][code]
	return meaning, ok
}

// Len counts codes across all buckets.
func (d Decoder) Len() int {
	n := 0
	for _, bucket := range d {
		n += len(bucket)
	}
	return n
}

func (d Decoder) IsEmpty() bool { return d.Len() == 0 }
