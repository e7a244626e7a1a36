package api

import "errors"

func (r Request) Validate() error {
	if r.Method == "" {
		return errors.New("method is required")
	}
	return nil
}

// Validate для auth: пустой токен отклоняется до сравнения с секретом
func (p AuthParams) Validate() error {
	if p.Token == "" {
		return errors.New("token is required")
	}
	return nil
}
