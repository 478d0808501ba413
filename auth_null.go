package srtp

// nullAuth produces no tag. Policies that disable authentication still carry
// an authenticator object so the pipelines stay uniform.
type nullAuth struct{}

func newNullAuth() *nullAuth { return &nullAuth{} }

func (*nullAuth) id() AuthID         { return AuthNull }
func (*nullAuth) keyLength() int     { return 0 }
func (*nullAuth) tagLength() int     { return 0 }
func (*nullAuth) prefixLength() int  { return 0 }
func (*nullAuth) start() error       { return nil }
func (*nullAuth) update([]byte) error { return nil }

func (*nullAuth) compute(_, _ []byte) (int, error) { return 0, nil }

func (*nullAuth) zeroize() {}
