package purchase

// ErrKind - alışveriş akışındaki hata sınıfları. Akış hiçbir hatayı dışarı
// panic olarak taşımaz; her başarısızlık bir OpError olarak döner ve HTTP
// katmanı Kind üzerinden dallanır.
type ErrKind string

const (
	ErrValidation  ErrKind = "validation"  // girdi hatalı, hiçbir yazma yapılmadı
	ErrNotFound    ErrKind = "not_found"   // şube ya da alışveriş yok
	ErrCalculation ErrKind = "calculation" // puan servisi başarısız
	ErrPersistence ErrKind = "persistence" // header/item yazması başarısız
	ErrUnexpected  ErrKind = "unexpected"  // sınıflandırılamayan hata
)

type OpError struct {
	Kind    ErrKind
	Message string // kullanıcıya gösterilecek tek mesaj
	Err     error  // altta yatan hata (loglama için)
}

func (e *OpError) Error() string {
	return e.Message
}

func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(kind ErrKind, message string, err error) *OpError {
	return &OpError{Kind: kind, Message: message, Err: err}
}
