package main

import (
	"flag"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// 生成 bcrypt 密码哈希，方便手工往数据库写入账号。
// 用法：go run ./scripts/hashpw -password secret
func main() {
	password := flag.String("password", "", "要哈希的明文密码")
	flag.Parse()

	if *password == "" {
		log.Fatal("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	fmt.Println(string(hash))
}
