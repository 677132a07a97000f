package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/teknetau/gestion_backend/config"
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// store full list of a type
func StoreRedisList[T any](obj any) error {
	key := GetTypeName[T]() + "List"
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// get from redis, returns nil if it does not exist
func RetrieveRedis[T any](id int) (*T, error) {
	var result *T
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

func RetrieveRedisList[T any]() ([]*T, error) {
	key := GetTypeName[T]() + "List"
	var result []*T
	exists, err := config.GetRedisObject(key, &result)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return result, nil
}

// clear list, TypeList
func RemoveRedisList[T any]() error {
	return config.RemoveRedisKey(GetTypeName[T]() + "List")
}

// remove an instance, Type:$id
func RemoveRedisItem[T any](id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.RemoveRedisKey(key)
}
